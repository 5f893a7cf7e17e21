package memory

// Store bundles every in-memory repository behind one TxManager.
type Store struct {
	TxManager *TxManager

	Items           *ItemRepo
	Stock           *StockRepo
	GateInwards     *GateInwardRepo
	IssueNotes      *IssueNoteRepo
	InwardInternals *InwardInternalRepo
	OutwardChallans *OutwardChallanRepo

	Sequences *Sequences
}

// NewStore creates an empty store with all repositories registered for
// rollback and item reference checks.
func NewStore() *Store {
	items := NewItemRepo()
	s := &Store{
		Items:           items,
		Stock:           NewStockRepo(items),
		GateInwards:     NewGateInwardRepo(),
		IssueNotes:      NewIssueNoteRepo(),
		InwardInternals: NewInwardInternalRepo(),
		OutwardChallans: NewOutwardChallanRepo(),
		Sequences:       NewSequences(),
	}

	s.TxManager = NewTxManager(s.Items, s.Stock, s.GateInwards, s.IssueNotes, s.InwardInternals, s.OutwardChallans, s.Sequences)
	items.AddReferencers(s.Stock, s.GateInwards, s.IssueNotes, s.InwardInternals, s.OutwardChallans)
	return s
}
