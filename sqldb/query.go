package sqldb

import "strings"

func createTableSQL(d Dialect, t TableData) (string, error) {
	fields := t.ColumnNames
	if t.AutoKey {
		fields = append([]Field{d.AutoKey()}, fields...)
	}
	if len(fields) == 0 {
		return "", ErrNoColumns
	}

	defs := make([]string, 0, len(fields)+len(t.ForeignKeys))
	for _, f := range fields {
		def := f.Title + " " + f.Type
		if f.Constraint != "" {
			def += " " + f.Constraint
		}
		defs = append(defs, def)
	}
	for _, fk := range t.ForeignKeys {
		defs = append(defs, "FOREIGN KEY ("+fk.Column+") REFERENCES "+fk.RefTable+"("+fk.RefColumn+")")
	}

	sql := `CREATE TABLE `
	if t.IfNotExists {
		sql += `IF NOT EXISTS `
	}
	return sql + t.TableName + " (" + strings.Join(defs, ", ") + ")", nil
}

// duplicateSQL returns an empty query when no unique column is present in
// data.
func duplicateSQL(table string, data Row, uniqueColumns []string) (string, []any) {
	var conds []string
	var args []any
	for _, col := range uniqueColumns {
		v, ok := data[col]
		if !ok {
			continue
		}
		conds = append(conds, col+" = ?")
		args = append(args, v)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return `SELECT COUNT(*) FROM ` + table + ` WHERE ` + strings.Join(conds, " AND "), args
}

func insertSQL(table string, columns []string, rowCount int) string {
	blank := ",(" + strings.Repeat(",?", len(columns))[1:] + ")"
	return `INSERT INTO ` + table + ` (` + strings.Join(columns, ", ") + `) VALUES ` +
		strings.Repeat(blank, rowCount)[1:]
}

func updateSQL(table string, columns []string, where string) string {
	sets := make([]string, 0, len(columns))
	for _, c := range columns {
		sets = append(sets, c+" = ?")
	}
	return `UPDATE ` + table + ` SET ` + strings.Join(sets, ", ") + ` WHERE ` + where
}

func deleteSQL(table string, where string) string {
	return `DELETE FROM ` + table + ` WHERE ` + where
}

func selectSQL(table string, columns []string, where string) string {
	cols := "*"
	if len(columns) > 0 {
		cols = strings.Join(columns, ", ")
	}
	sql := `SELECT ` + cols + ` FROM ` + table
	if where != "" {
		sql += ` WHERE ` + where
	}
	return sql
}
