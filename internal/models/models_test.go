package models_test

import (
	"encoding/json"
	"testing"

	"todo-cli/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestTask_TableName(t *testing.T) {
	assert.Equal(t, "tasks", models.Task{}.TableName())
}

func TestTask_HasDue(t *testing.T) {
	assert.False(t, models.Task{Description: "Call Alice"}.HasDue())
	assert.True(t, models.Task{Description: "Pay rent", Due: strPtr("2025-05-15")}.HasDue())
}

func TestProject_AssignsOneBasedIndices(t *testing.T) {
	rows := []models.Task{
		{ID: 7, Description: "Pay rent", Due: strPtr("2025-05-15")},
		{ID: 3, Description: "Buy milk", Due: strPtr("2025-06-01"), Completed: true},
		{ID: 9, Description: "Call Alice"},
	}

	views := models.Project(rows)

	require.Len(t, views, 3)
	for i, v := range views {
		assert.Equal(t, i+1, v.Idx)
		assert.Equal(t, rows[i].Description, v.Description)
		assert.Equal(t, rows[i].Completed, v.Completed)
		assert.Equal(t, rows[i].Due, v.Due)
	}
}

func TestProject_CopiesDue(t *testing.T) {
	rows := []models.Task{{ID: 1, Description: "Pay rent", Due: strPtr("2025-05-15")}}

	views := models.Project(rows)
	*rows[0].Due = "2030-01-01"

	require.NotNil(t, views[0].Due)
	assert.Equal(t, "2025-05-15", *views[0].Due)
}

func TestProject_Empty(t *testing.T) {
	views := models.Project(nil)

	assert.NotNil(t, views)
	assert.Empty(t, views)
}

func TestTaskView_JSONShape(t *testing.T) {
	data, err := json.Marshal(models.Project([]models.Task{
		{ID: 1, Description: "Call Alice"},
		{ID: 2, Description: "Pay rent", Due: strPtr("2025-05-15 09:00")},
	}))
	require.NoError(t, err)

	assert.JSONEq(t, `[
		{"idx":1,"description":"Call Alice","completed":false,"due":null},
		{"idx":2,"description":"Pay rent","completed":false,"due":"2025-05-15 09:00"}
	]`, string(data))
}
