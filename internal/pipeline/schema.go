package pipeline

import "context"

type schemaStage struct {
	toggle
}

// NewSchema creates the stage that initializes the jobs and candidates tables.
func NewSchema() Stage {
	return &schemaStage{}
}

func (s *schemaStage) Name() string { return "schema" }

func (s *schemaStage) Validate(*Config) error { return nil }

func (s *schemaStage) Apply(ctx context.Context, deps Deps, _ *State) (Step, error) {
	if err := deps.Store.Migrate(ctx); err != nil {
		return Step{}, err
	}
	return Step{}, nil
}
