package department_test

import (
	"sync"
	"testing"

	"go-ems/internal/department"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

// Nama harus unik hanya di antara departemen yang masih hidup; baris yang
// sudah soft-delete tidak boleh memblokir pembuatan ulang nama yang sama.
func TestDepartmentSchema_NameUniqueOnlyForLiveRows(t *testing.T) {
	s, err := schema.Parse(&department.Department{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)

	idx, ok := s.ParseIndexes()["uq_department_name"]
	require.True(t, ok, "index uq_department_name tidak ditemukan")

	assert.Equal(t, "UNIQUE", idx.Class)
	assert.Equal(t, "deleted_at IS NULL", idx.Where)
	require.Len(t, idx.Fields, 1)
	assert.Equal(t, "Name", idx.Fields[0].Name)
}
