package source

// Export internal helpers for white-box tests
var (
	ChurnQuery        = churnQuery
	ValidateTableName = validateTableName
)
