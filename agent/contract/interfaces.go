package contract

import "context"

type Planner interface {
	Plan(ctx context.Context, history []Message) (PlannerResult, error)
}

type Normalizer interface {
	Normalize(req NormalizeRequest) NormalizedAnswer
}

type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]Passage, error)
}

type ProductAnswerer interface {
	Answer(ctx context.Context, query string) (ProductAnswer, error)
}

type OutletQuerier interface {
	Query(ctx context.Context, question string) (OutletAnswer, error)
}
