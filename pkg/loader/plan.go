package loader

import (
	"fmt"
	"strings"

	"github.com/m-mizutani/redload/pkg/models"
)

// Step names of the load plan. The executor reports these on failure and
// the audit record stores them.
const (
	StepTruncateStaging = "Truncate Staging"
	StepCopyToStaging   = "Copy to Staging"
	StepCreateFinal     = "Create Final Table"
	StepMergeUpsert     = "Merge (Upsert) Data"
)

// upsertKey and upsertColumns fix the merge schema of the load plan.
// The target tables are expected to be flat (id, name, email, age,
// created_at) with id as identity column.
const upsertKey = "id"

var upsertColumns = []string{"id", "name", "email", "age", "created_at"}

// BuildPlan returns the fixed four-step statement sequence implementing
// the truncate, bulk-copy, create-if-absent, merge-upsert pattern.
// Table names and role ARN are trusted as-is: no identifier validation
// happens here.
func BuildPlan(stagingTable, finalTable string, source models.S3Object, roleARN string) models.LoadPlan {
	return models.LoadPlan{
		{
			Name: StepTruncateStaging,
			SQL:  fmt.Sprintf("TRUNCATE TABLE %s;", stagingTable),
		},
		{
			Name: StepCopyToStaging,
			SQL: fmt.Sprintf("COPY %s FROM '%s' IAM_ROLE '%s' FORMAT AS JSON 'auto';",
				stagingTable, source.S3URI(), roleARN),
		},
		{
			Name: StepCreateFinal,
			SQL:  fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (LIKE %s);", finalTable, stagingTable),
		},
		{
			Name: StepMergeUpsert,
			SQL:  buildMergeSQL(stagingTable, finalTable),
		},
	}
}

func buildMergeSQL(stagingTable, finalTable string) string {
	var updates []string
	for _, col := range upsertColumns {
		if col == upsertKey {
			continue
		}
		updates = append(updates, fmt.Sprintf("%s = %s.%s", col, stagingTable, col))
	}

	var values []string
	for _, col := range upsertColumns {
		values = append(values, fmt.Sprintf("%s.%s", stagingTable, col))
	}

	return fmt.Sprintf("MERGE INTO %s USING %s ON %s.%s = %s.%s "+
		"WHEN MATCHED THEN UPDATE SET %s "+
		"WHEN NOT MATCHED THEN INSERT (%s) VALUES (%s);",
		finalTable, stagingTable,
		finalTable, upsertKey, stagingTable, upsertKey,
		strings.Join(updates, ", "),
		strings.Join(upsertColumns, ", "),
		strings.Join(values, ", "))
}
