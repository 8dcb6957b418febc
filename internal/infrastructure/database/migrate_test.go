package database

import "testing"

func TestMigrationModelsCoverOwnedTables(t *testing.T) {
	want := []string{"doctors", "appointments", "prescriptions"}

	models := MigrationModels()
	if len(models) != len(want) {
		t.Fatalf("expected %d migration models, got %d", len(want), len(models))
	}

	for i, m := range models {
		named, ok := m.(interface{ TableName() string })
		if !ok {
			t.Fatalf("model %d does not declare a table name", i)
		}
		if got := named.TableName(); got != want[i] {
			t.Fatalf("expected table %q at position %d, got %q", want[i], i, got)
		}
	}
}
