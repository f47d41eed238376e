package port

// Mutation outcomes recorded by MutationMetrics
const (
	OutcomeSuccess          = "success"
	OutcomeValidationError  = "validation_error"
	OutcomePersistenceError = "persistence_error"
	OutcomeInternalError    = "internal_error"
)

// MutationMetrics records invoice mutation outcomes
type MutationMetrics interface {
	RecordMutation(operation, outcome string)
}
