package repository

// TxRepositories repositorios atados a una misma transacción.
type TxRepositories struct {
	Snapshots   SnapshotRepository
	Archive     ArchiveRepository
	Summary     SummaryRepository
	UOM         UOMRepository
	Identifiers IdentifierRepository
}
