package repositories

// RepositoryProvider bundles all repository facades for dependency injection
// into the service layer.
type RepositoryProvider struct {
	AccountRepo     AccountRepositoryFacade
	JournalRepo     JournalRepositoryFacade
	MemberRepo      MemberRepositoryFacade
	CycleRepo       CycleRepositoryFacade
	DeclarationRepo DeclarationRepositoryFacade
	DepositRepo     DepositRepositoryFacade
	LoanRepo        LoanRepositoryFacade
	PenaltyRepo     PenaltyRepositoryFacade
}
