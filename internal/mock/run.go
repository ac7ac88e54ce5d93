package mock

import (
	"github.com/m-mizutani/redload/pkg/models"
)

// RunRepository is on memory mock of repository.RunRepository
type RunRepository struct {
	Runs map[string]*models.LoadRun
}

// NewRunRepository is constructor of RunRepository mock
func NewRunRepository() *RunRepository {
	return &RunRepository{
		Runs: map[string]*models.LoadRun{},
	}
}

// PutRun of RunRepository saves a copy of the run record to memory
func (x *RunRepository) PutRun(run *models.LoadRun) error {
	copied := *run
	x.Runs[run.RunID] = &copied
	return nil
}

// GetRun of RunRepository loads a run record from memory
func (x *RunRepository) GetRun(runID string) (*models.LoadRun, error) {
	run, ok := x.Runs[runID]
	if !ok {
		return nil, nil
	}
	return run, nil
}
