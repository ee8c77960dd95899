package levels

import (
	"sort"
	"sync"
)

// Level is one configured challenge. Definitions are built at startup and only
// change through admin overrides.
type Level struct {
	ID               int
	Title            string
	Story            string
	Objective        string
	Hint             string
	SQLConcepts      []string
	TablesUnlocked   []string
	ExpectedQuery    string
	ExpectedColumns  []string
	ExpectedRowCount *int
	OrderMatters     bool
}

// View is the player-facing shape of a level, without the solution.
type View struct {
	ID             int      `json:"id"`
	Title          string   `json:"title"`
	Story          string   `json:"story"`
	Objective      string   `json:"objective"`
	Hint           string   `json:"hint"`
	SQLConcepts    []string `json:"sql_concepts"`
	TablesUnlocked []string `json:"tables_unlocked"`
}

func (l *Level) View() View {
	return View{
		ID:             l.ID,
		Title:          l.Title,
		Story:          l.Story,
		Objective:      l.Objective,
		Hint:           l.Hint,
		SQLConcepts:    l.SQLConcepts,
		TablesUnlocked: l.TablesUnlocked,
	}
}

// Registry holds all levels. Reads vastly outnumber writes; overrides are rare
// admin operations.
type Registry struct {
	mu     sync.RWMutex
	levels map[int]*Level
	ids    []int
}

func NewRegistry(defs []*Level) *Registry {
	r := &Registry{levels: make(map[int]*Level, len(defs))}
	for _, l := range defs {
		cp := *l
		r.levels[l.ID] = &cp
		r.ids = append(r.ids, l.ID)
	}
	sort.Ints(r.ids)
	return r
}

// Get returns a copy so callers cannot mutate registry state.
func (r *Registry) Get(id int) (Level, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.levels[id]
	if !ok {
		return Level{}, false
	}
	return *l, true
}

func (r *Registry) All() []Level {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Level, 0, len(r.ids))
	for _, id := range r.ids {
		out = append(out, *r.levels[id])
	}
	return out
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.ids)
}

// NextID returns the id of the level after the given one, or 0 if it is the
// final level.
func (r *Registry) NextID(id int) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i, v := range r.ids {
		if v == id && i+1 < len(r.ids) {
			return r.ids[i+1]
		}
	}
	return 0
}

// TablesFor lists the tables unlocked at the given level.
func (r *Registry) TablesFor(id int) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.levels[id]
	if !ok {
		return nil
	}
	return append([]string(nil), l.TablesUnlocked...)
}

// ApplyOverride patches a level in place. Nil fields keep the current value.
func (r *Registry) ApplyOverride(id int, expectedQuery, hint *string, orderMatters *bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.levels[id]
	if !ok {
		return false
	}
	if expectedQuery != nil {
		l.ExpectedQuery = *expectedQuery
	}
	if hint != nil {
		l.Hint = *hint
	}
	if orderMatters != nil {
		l.OrderMatters = *orderMatters
	}
	return true
}

func intPtr(v int) *int { return &v }

// Default builds the registry with the seven case-file levels.
func Default() *Registry {
	return NewRegistry(defaultLevels())
}

func defaultLevels() []*Level {
	return []*Level{
		{
			ID:    1,
			Title: "The Missing Witness",
			Story: "CASE FILE #2024-0315: The Downtown Bank Heist. Last night, $2.5 million " +
				"was stolen from the Downtown Bank vault. The security system was disabled " +
				"from inside. A key witness has gone missing. Intelligence suggests we focus " +
				"on individuals over 30 with prior criminal history - they match the profile " +
				"of experienced criminals capable of such a sophisticated heist. The " +
				"department has granted you access to the SUSPECTS database.",
			Objective:      "Find all suspects who are over 30 years old AND have a criminal record.",
			Hint:           "Use SELECT with WHERE clause. The 'criminal_record' column uses 1 for yes, 0 for no.",
			SQLConcepts:    []string{"SELECT", "WHERE", "AND"},
			TablesUnlocked: []string{"suspects"},
			ExpectedQuery: `SELECT * FROM suspects
				WHERE age > 30 AND criminal_record = 1`,
			ExpectedRowCount: intPtr(2),
			OrderMatters:     false,
		},
		{
			ID:    2,
			Title: "The Midnight Call",
			Story: "CASE FILE #2024-0315: Phone Records Analysis. The robbery occurred at " +
				"11:45 PM on March 15, 2024. Surveillance believes crucial coordination " +
				"calls were made between 11 PM and 2 AM that night. You now have access to " +
				"PHONE_RECORDS. We need the 5 most recent calls from that window.",
			Objective:      "Find the 5 most recent phone calls made between 11 PM (March 15) and 2 AM (March 16, 2024).",
			Hint:           "Use BETWEEN for the timestamp range, ORDER BY timestamp DESC, and LIMIT 5.",
			SQLConcepts:    []string{"BETWEEN", "ORDER BY", "LIMIT", "DESC"},
			TablesUnlocked: []string{"suspects", "phone_records"},
			ExpectedQuery: `SELECT * FROM phone_records
				WHERE timestamp BETWEEN '2024-03-15 23:00:00' AND '2024-03-16 02:00:00'
				ORDER BY timestamp DESC
				LIMIT 5`,
			ExpectedRowCount: intPtr(5),
			OrderMatters:     true,
		},
		{
			ID:    3,
			Title: "The Connection",
			Story: "CASE FILE #2024-0315: CCTV Analysis. Our tech team has recovered CCTV " +
				"footage from the Downtown Bank area and logged all identified individuals. " +
				"You now have access to CCTV_LOGS and LOCATIONS. Cross-reference the CCTV " +
				"logs with suspect data to find out who was physically present at the bank " +
				"on the night of the robbery.",
			Objective:      "Find all suspects who were captured on CCTV at 'Downtown Bank'. Show their name, occupation, location, and timestamp.",
			Hint:           "Use INNER JOIN to connect suspects with cctv_logs and locations tables. Filter by location name.",
			SQLConcepts:    []string{"INNER JOIN", "Foreign Keys", "Multi-table queries"},
			TablesUnlocked: []string{"suspects", "phone_records", "cctv_logs", "locations"},
			ExpectedQuery: `SELECT s.name, s.occupation, l.name as location, c.timestamp
				FROM suspects s
				INNER JOIN cctv_logs c ON s.id = c.person_id
				INNER JOIN locations l ON c.location_id = l.id
				WHERE l.name = 'Downtown Bank'`,
			ExpectedColumns:  []string{"name", "occupation", "location", "timestamp"},
			ExpectedRowCount: intPtr(5),
			OrderMatters:     false,
		},
		{
			ID:    4,
			Title: "The Pattern",
			Story: "CASE FILE #2024-0315: Communication Pattern Analysis. The mastermind " +
				"typically makes an unusually high number of calls before a major operation. " +
				"Our phone records contain all calls from March 15, 2024. Find anyone who " +
				"made MORE than 5 calls that day - that should reveal who was coordinating.",
			Objective:      "Find all callers who made more than 5 calls on March 15, 2024. Show the caller_id and their total call count.",
			Hint:           "Use GROUP BY caller_id, COUNT(*), and HAVING to filter groups. Use DATE() to extract the date from timestamp.",
			SQLConcepts:    []string{"GROUP BY", "HAVING", "COUNT", "Aggregate functions"},
			TablesUnlocked: []string{"suspects", "phone_records", "cctv_logs", "locations"},
			ExpectedQuery: `SELECT caller_id, COUNT(*) as call_count
				FROM phone_records
				WHERE DATE(timestamp) = '2024-03-15'
				GROUP BY caller_id
				HAVING COUNT(*) > 5`,
			ExpectedColumns:  []string{"caller_id", "call_count"},
			ExpectedRowCount: intPtr(1),
			OrderMatters:     false,
		},
		{
			ID:    5,
			Title: "The Money Trail",
			Story: "CASE FILE #2024-0315: Financial Investigation. Criminals often make " +
				"large transactions before and after a heist. You now have access to " +
				"BANK_TRANSACTIONS. We are looking for transactions that are ABOVE AVERAGE " +
				"for the week of the crime (March 10-17, 2024).",
			Objective:      "Find all transactions where the amount is greater than the average transaction amount during March 10-17, 2024.",
			Hint:           "Use a subquery to calculate the average: SELECT AVG(amount) FROM bank_transactions WHERE...",
			SQLConcepts:    []string{"Subqueries", "AVG", "Nested SELECT"},
			TablesUnlocked: []string{"suspects", "phone_records", "cctv_logs", "locations", "bank_transactions"},
			ExpectedQuery: `SELECT * FROM bank_transactions
				WHERE amount > (
					SELECT AVG(amount) FROM bank_transactions
					WHERE timestamp BETWEEN '2024-03-10' AND '2024-03-17 23:59:59'
				)`,
			ExpectedRowCount: intPtr(6),
			OrderMatters:     false,
		},
		{
			ID:    6,
			Title: "The Movement",
			Story: "CASE FILE #2024-0315: Suspect Tracking. Viktor Petrov is our prime " +
				"suspect, but his lawyer claims he was at his Harbor District office all " +
				"evening. Build a timeline of Viktor's (suspect ID = 3) movements from CCTV " +
				"sightings to break the alibi.",
			Objective:      "Create a timeline of suspect #3's (Viktor Petrov) movements using CCTV logs. Show the timestamp and location name, ordered by time.",
			Hint:           "Use WITH clause to create a CTE. Join cctv_logs with locations, filter by person_id = 3, then select and order.",
			SQLConcepts:    []string{"WITH clause", "CTEs", "Common Table Expressions"},
			TablesUnlocked: []string{"suspects", "phone_records", "cctv_logs", "locations", "bank_transactions"},
			ExpectedQuery: `WITH suspect_movements AS (
					SELECT c.timestamp, l.name as location
					FROM cctv_logs c
					JOIN locations l ON c.location_id = l.id
					WHERE c.person_id = 3
				)
				SELECT * FROM suspect_movements
				ORDER BY timestamp`,
			ExpectedColumns:  []string{"timestamp", "location"},
			ExpectedRowCount: intPtr(10),
			OrderMatters:     true,
		},
		{
			ID:    7,
			Title: "The Final Piece",
			Story: "CASE FILE #2024-0315: Final Evidence. We have tracked Viktor's movements " +
				"and disproven his alibi. Forensic accountants flag sudden spikes in " +
				"transaction amounts. Using window functions, analyze the transaction " +
				"patterns of suspects with criminal records and find the smoking gun.",
			Objective: "For suspects with criminal records, analyze their transactions: show account_id, amount, timestamp, " +
				"rank by amount (descending), previous amount, and the change from previous amount.",
			Hint:           "Use RANK() OVER (PARTITION BY... ORDER BY...) and LAG() window functions. Filter using a subquery on criminal_record.",
			SQLConcepts:    []string{"Window Functions", "RANK", "LAG", "PARTITION BY", "OVER"},
			TablesUnlocked: []string{"suspects", "phone_records", "cctv_logs", "locations", "bank_transactions"},
			ExpectedQuery: `SELECT
					account_id,
					amount,
					timestamp,
					RANK() OVER (PARTITION BY account_id ORDER BY amount DESC) as amount_rank,
					LAG(amount) OVER (PARTITION BY account_id ORDER BY timestamp) as prev_amount,
					amount - LAG(amount) OVER (PARTITION BY account_id ORDER BY timestamp) as amount_change
				FROM bank_transactions
				WHERE account_id IN (SELECT id FROM suspects WHERE criminal_record = 1)`,
			ExpectedColumns:  []string{"account_id", "amount", "timestamp", "amount_rank", "prev_amount", "amount_change"},
			ExpectedRowCount: intPtr(8),
			OrderMatters:     false,
		},
	}
}
