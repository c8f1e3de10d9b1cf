package sample

type Table struct {
	Name    string
	Columns []*Column
}

type Column struct {
	Name       string
	DataType   string
	IsNullable bool
	IsPK       bool
	Meaning    string // decoded from the column name, e.g. "user id"
	RefTable   string // value pool to draw from instead of generating
}

func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

func newTable(name string, cols ...*Column) *Table {
	for _, c := range cols {
		c.Meaning = AnalyzeMeaning(c.Name)
	}
	return &Table{Name: name, Columns: cols}
}

// Tables is the schema written by the generator. Column order follows the
// CRM database so the membership key sits at literal positions 2 and 3.
func Tables() []*Table {
	return []*Table{
		newTable("user_profiles",
			&Column{Name: "id", DataType: "uuid", IsPK: true},
			&Column{Name: "email", DataType: "text"},
			&Column{Name: "full_name", DataType: "text", IsNullable: true},
			&Column{Name: "role", DataType: "text"},
			&Column{Name: "is_active", DataType: "boolean", IsNullable: true},
			&Column{Name: "created_at", DataType: "timestamp with time zone", IsNullable: true},
		),
		newTable("company_members",
			&Column{Name: "id", DataType: "uuid", IsPK: true},
			&Column{Name: "company_id", DataType: "uuid", RefTable: "company_settings"},
			&Column{Name: "user_id", DataType: "uuid", RefTable: "user_profiles"},
			&Column{Name: "role", DataType: "text"},
			&Column{Name: "is_active", DataType: "boolean"},
			&Column{Name: "created_at", DataType: "timestamp with time zone", IsNullable: true},
		),
		newTable("customers",
			&Column{Name: "id", DataType: "uuid", IsPK: true},
			&Column{Name: "company_id", DataType: "uuid", RefTable: "company_settings"},
			&Column{Name: "first_nm", DataType: "text"},
			&Column{Name: "last_nm", DataType: "text"},
			&Column{Name: "email", DataType: "text", IsNullable: true},
			&Column{Name: "tel", DataType: "text", IsNullable: true},
			&Column{Name: "addr", DataType: "text", IsNullable: true},
			&Column{Name: "notes", DataType: "text", IsNullable: true},
			&Column{Name: "created_at", DataType: "timestamp with time zone", IsNullable: true},
		),
	}
}
