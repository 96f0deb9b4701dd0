package seed_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/sitebook/internal/ledger"
	"github.com/MrJamesThe3rd/sitebook/internal/seed"
)

func TestDefault(t *testing.T) {
	s, err := seed.Default()
	require.NoError(t, err)

	assert.Equal(t, "PGK Construction", s.Project.Name)
	assert.Equal(t, int64(1031250), s.Project.TotalCost)
	assert.Equal(t, time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC), s.Project.StartDate)

	require.Len(t, s.Stages, 9)
	assert.Equal(t, ledger.StageCompleted, s.Stages[0].Status)
	assert.Equal(t, ledger.StageInProgress, s.Stages[1].Status)
	assert.Equal(t, int64(154687), s.Stages[1].Amount, "literal amounts are kept")
	assert.True(t, s.Stages[2].Date.IsZero())

	total := 0
	for _, st := range s.Stages {
		total += st.Percentage
	}

	assert.Equal(t, 100, total)

	require.Len(t, s.Expenses, 3)
	assert.Equal(t, ledger.ExpensePaid, s.Expenses[0].Status)
	assert.Equal(t, ledger.ExpensePending, s.Expenses[2].Status)
	assert.Equal(t, ledger.CategorySepticTank, s.Expenses[2].Category)
	assert.Empty(t, s.Payments)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr bool
		check   func(t *testing.T, s ledger.Seed)
	}{
		{
			name: "ComputedAmountsAndCost",
			doc: `
[project]
name = "Duplex"
per_sqft_rate = 2000
total_sqft = 1000

[[stages]]
id = "a"
name = "Advance"
percentage = 15
`,
			check: func(t *testing.T, s ledger.Seed) {
				assert.Equal(t, int64(2000000), s.Project.TotalCost)
				assert.Equal(t, int64(300000), s.Stages[0].Amount)
				assert.Equal(t, ledger.StagePending, s.Stages[0].Status)
			},
		},
		{
			name: "DefaultCategory",
			doc: `
[project]
total_cost = 100

[[expenses]]
id = "x"
name = "Misc"
amount = 10
`,
			check: func(t *testing.T, s ledger.Seed) {
				assert.Equal(t, ledger.CategoryOther, s.Expenses[0].Category)
			},
		},
		{
			name:    "MissingTotalCost",
			doc:     `[project]` + "\n" + `name = "x"`,
			wantErr: true,
		},
		{
			name: "BadPercentage",
			doc: `
[project]
total_cost = 100
[[stages]]
id = "a"
name = "A"
percentage = 0
`,
			wantErr: true,
		},
		{
			name: "DuplicateStageID",
			doc: `
[project]
total_cost = 100
[[stages]]
id = "a"
name = "A"
percentage = 10
[[stages]]
id = "a"
name = "B"
percentage = 10
`,
			wantErr: true,
		},
		{
			name: "BadDate",
			doc: `
[project]
total_cost = 100
start_date = "01/09/2023"
`,
			wantErr: true,
		},
		{
			name: "UnknownCategory",
			doc: `
[project]
total_cost = 100
[[expenses]]
id = "x"
name = "Pool"
amount = 10
category = "pool"
`,
			wantErr: true,
		},
		{
			name: "UnknownKey",
			doc: `
[project]
total_cost = 100
colour = "blue"
`,
			wantErr: true,
		},
		{
			name:    "NotTOML",
			doc:     `{"project": {}}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := seed.Parse(tt.doc)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			tt.check(t, got)
		})
	}
}

func TestLoad(t *testing.T) {
	def, err := seed.Load("")
	require.NoError(t, err)
	assert.Equal(t, "PGK Construction", def.Project.Name)

	path := filepath.Join(t.TempDir(), "project.toml")
	require.NoError(t, os.WriteFile(path, []byte("[project]\nname = \"Annex\"\ntotal_cost = 500000\n"), 0o600))

	got, err := seed.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Annex", got.Project.Name)
	assert.Empty(t, got.Stages)

	_, err = seed.Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
