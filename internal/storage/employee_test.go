package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var employeeFixture = filepath.Join("..", "..", "testdata", "employee.fdb")

// openEmployee opens the reference employee database shipped with the
// engine. The file is not part of the repository.
func openEmployee(t *testing.T) *Database {
	t.Helper()
	if _, err := os.Stat(employeeFixture); err != nil {
		t.Skipf("reference database not available: %v", err)
	}
	db, err := Open(employeeFixture)
	require.NoError(t, err)
	return db
}

func prepareEmployeeTable(t *testing.T, db *Database, name string) *Cursor {
	t.Helper()
	tbl, err := db.Table(name)
	require.NoError(t, err)
	cur, err := tbl.Prepare()
	require.NoError(t, err)
	return cur
}

func TestEmployeeTables(t *testing.T) {
	db := openEmployee(t)

	tables := db.Tables()
	assert.Len(t, tables, 61)

	user := db.UserTables()
	require.Len(t, user, 11)
	assert.Equal(t, "COUNTRY", user[0].Name)
	assert.Equal(t, uint16(128), user[0].Relation)
	assert.Equal(t, "JOB", user[1].Name)
	assert.Equal(t, uint16(129), user[1].Relation)
	assert.Equal(t, "SALES", user[10].Name)
	assert.Equal(t, uint16(138), user[10].Relation)

	again := openEmployee(t)
	assert.Equal(t, tableNames(tables), tableNames(again.Tables()))
}

func TestEmployeeColumns(t *testing.T) {
	db := openEmployee(t)

	dept := prepareEmployeeTable(t, db, "DEPARTMENT").Columns()
	require.Len(t, dept, 7)
	assert.Equal(t, Column{Name: "DEPT_NO", Position: 0, Source: "DEPTNO", Size: 3, Type: TypeChar, NotNull: true}, dept[0])
	assert.Equal(t, Column{Name: "BUDGET", Position: 4, Source: "BUDGET", Size: 8, Scale: -2, Type: TypeBigint}, dept[4])
	assert.Equal(t, Column{Name: "PHONE_NO", Position: 6, Source: "PHONENUMBER", Size: 20, Type: TypeVarchar}, dept[6])

	emp := prepareEmployeeTable(t, db, "EMPLOYEE").Columns()
	require.Len(t, emp, 11)
	assert.Equal(t, Column{Name: "EMP_NO", Position: 0, Source: "EMPNO", Size: 2, Type: TypeSmallint, NotNull: true}, emp[0])
	assert.Equal(t, Column{Name: "FIRST_NAME", Position: 1, Source: "FIRSTNAME", Size: 15, Type: TypeVarchar, NotNull: true}, emp[1])
	assert.Equal(t, "FULL_NAME", emp[10].Name)
	assert.Equal(t, 10, emp[10].Position)
	assert.Equal(t, 37, emp[10].Size)
	assert.Equal(t, "RDB$9", emp[10].Source)
	assert.Equal(t, TypeVarchar, emp[10].Type)
}

func TestEmployeeCountryRows(t *testing.T) {
	db := openEmployee(t)
	cur := prepareEmployeeTable(t, db, "COUNTRY")

	row, err := cur.Next()
	require.NoError(t, err)
	assert.Equal(t, []Value{TextValue("USA"), TextValue("Dollar")}, row.Values())
	assert.Equal(t, []byte{0x03, 0x00, 'U', 'S', 'A', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}, row.Raw[0])
	assert.Equal(t, []byte{0x06, 0x00, 'D', 'o', 'l', 'l', 'a', 'r', 0, 0, 0, 0}, row.Raw[1])

	row, err = cur.Next()
	require.NoError(t, err)
	assert.Equal(t, []Value{TextValue("England"), TextValue("Pound")}, row.Values())

	for i := 3; i <= 16; i++ {
		row, err = cur.Next()
		require.NoError(t, err)
		require.NotNil(t, row, "row %d", i)
	}
	assert.Equal(t, []Value{TextValue("Romania"), TextValue("RLeu")}, row.Values())

	for i := 0; i < 2; i++ {
		row, err = cur.Next()
		require.NoError(t, err)
		assert.Nil(t, row)
	}
}

func TestEmployeeMixedRows(t *testing.T) {
	db := openEmployee(t)

	row, err := prepareEmployeeTable(t, db, "CUSTOMER").Next()
	require.NoError(t, err)
	assert.Equal(t, IntegerValue(1001), row.Fields[0].Value)

	row, err = prepareEmployeeTable(t, db, "SALES").Next()
	require.NoError(t, err)
	values := row.Values()
	assert.Equal(t, []Value{TextValue("V91E0210"), IntegerValue(1004), SmallintValue(11), TextValue("shipped"), {}, {}, {}, TextValue("y")}, values[:8])
	assert.Equal(t, TextValue("hardware"), values[11])

	cur := prepareEmployeeTable(t, db, "EMPLOYEE")
	row, err = cur.Next()
	require.NoError(t, err)
	assert.Equal(t, []Value{
		SmallintValue(2), TextValue("Robert"), TextValue("Nelson"), TextValue("250"), {},
		TextValue("600"), TextValue("VP"), SmallintValue(2), TextValue("USA"), {}, {},
	}, row.Values())

	row, err = cur.Next()
	require.NoError(t, err)
	assert.Equal(t, []Value{
		SmallintValue(4), TextValue("Bruce"), TextValue("Young"), TextValue("233"), {},
		TextValue("621"), TextValue("Eng"), SmallintValue(2), TextValue("USA"),
	}, row.Values()[:9])
}
