package loader_test

import (
	"testing"

	"github.com/m-mizutani/redload/pkg/loader"
	"github.com/m-mizutani/redload/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPlanStepOrder(t *testing.T) {
	source := models.NewS3Object("us-east-1", "mybucket", "processed/data.json")
	plan := loader.BuildPlan("stg.x", "fin.x", source, "arn:aws:iam::123456789012:role/loader")

	require.Len(t, plan, 4)
	assert.Equal(t, loader.StepTruncateStaging, plan[0].Name)
	assert.Equal(t, loader.StepCopyToStaging, plan[1].Name)
	assert.Equal(t, loader.StepCreateFinal, plan[2].Name)
	assert.Equal(t, loader.StepMergeUpsert, plan[3].Name)
}

func TestBuildPlanSQL(t *testing.T) {
	source := models.NewS3Object("us-east-1", "mybucket", "processed/data.json")
	plan := loader.BuildPlan("stg.x", "fin.x", source, "arn:aws:iam::123456789012:role/loader")

	assert.Equal(t, "TRUNCATE TABLE stg.x;", plan[0].SQL)

	assert.Contains(t, plan[1].SQL, "COPY stg.x FROM 's3://mybucket/processed/data.json'")
	assert.Contains(t, plan[1].SQL, "IAM_ROLE 'arn:aws:iam::123456789012:role/loader'")
	assert.Contains(t, plan[1].SQL, "FORMAT AS JSON 'auto'")

	assert.Equal(t, "CREATE TABLE IF NOT EXISTS fin.x (LIKE stg.x);", plan[2].SQL)

	assert.Contains(t, plan[3].SQL, "MERGE INTO fin.x USING stg.x ON fin.x.id = stg.x.id")
	assert.Contains(t, plan[3].SQL, "WHEN MATCHED THEN UPDATE SET name = stg.x.name, email = stg.x.email, age = stg.x.age, created_at = stg.x.created_at")
	assert.Contains(t, plan[3].SQL, "WHEN NOT MATCHED THEN INSERT (id, name, email, age, created_at)")
	assert.Contains(t, plan[3].SQL, "VALUES (stg.x.id, stg.x.name, stg.x.email, stg.x.age, stg.x.created_at)")
}

func TestBuildPlanIsPure(t *testing.T) {
	source := models.NewS3Object("us-east-1", "b", "k")
	p1 := loader.BuildPlan("s1", "f1", source, "r1")
	p2 := loader.BuildPlan("s1", "f1", source, "r1")
	assert.Equal(t, p1, p2)
}
