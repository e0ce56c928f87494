package visit

// BillableSet holds the visit types that count toward statistics. Types
// outside the set stay visible in listings but are excluded from every
// count, including the total.
type BillableSet map[string]bool

// DefaultBillableTypes mirrors the clinic's standing billing policy. New
// visit types are non-billable until configured in.
var DefaultBillableTypes = []string{"implant", "kontrol", "muayene"}

func NewBillableSet(types []string) BillableSet {
	set := make(BillableSet, len(types))
	for _, t := range types {
		if t != "" {
			set[t] = true
		}
	}
	return set
}

// Filter narrows an aggregation to exact group matches. Empty fields
// match everything.
type Filter struct {
	FamilyGroup     string
	ProfessionGroup string
}

// Summary holds the counts derived from one pass over a visit list.
type Summary struct {
	Total       int `json:"total"`
	Accepted    int `json:"accepted"`
	NotAccepted int `json:"not_accepted"`
	Thinking    int `json:"thinking"`
}

// Aggregator computes billable summaries over fetched visit lists.
type Aggregator struct {
	billable BillableSet
}

func NewAggregator(billable BillableSet) Aggregator {
	return Aggregator{billable: billable}
}

// Apply filters the list to billable types, then to the given group
// filters, and returns the surviving visits with their status counts.
// Counts are recomputed on every call, never cached.
func (a Aggregator) Apply(visits []Visit, f Filter) ([]Visit, Summary) {
	kept := make([]Visit, 0, len(visits))
	var sum Summary
	for _, v := range visits {
		if !a.billable[v.VisitType] {
			continue
		}
		if f.FamilyGroup != "" && v.FamilyGroup != f.FamilyGroup {
			continue
		}
		if f.ProfessionGroup != "" && v.ProfessionGroup != f.ProfessionGroup {
			continue
		}
		kept = append(kept, v)
		sum.Total++
		switch v.Status {
		case StatusAccepted:
			sum.Accepted++
		case StatusNotAccepted:
			sum.NotAccepted++
		case StatusThinking:
			sum.Thinking++
		}
	}
	return kept, sum
}
