package sample

import "strings"

var abbreviations = map[string]string{
	"nm": "name", "dt": "date", "no": "number", "cd": "code",
	"desc": "description", "amt": "amount", "cnt": "count", "qty": "quantity",
	"addr": "address", "tel": "phone", "ph": "phone", "mob": "phone",
	"msg": "message", "txt": "text", "usr": "user", "emp": "employee",
	"co": "company", "comp": "company", "cust": "customer",
	"is": "yesno", "flg": "flag", "stat": "status", "sts": "status",
	"at": "date", "ts": "date",
}

// AnalyzeMeaning decodes abbreviations in a snake_case column name,
// e.g. "first_nm" -> "first name", "created_at" -> "created date".
func AnalyzeMeaning(colName string) string {
	parts := strings.Split(strings.ToLower(colName), "_")
	decoded := make([]string, 0, len(parts))
	for _, part := range parts {
		if full, ok := abbreviations[part]; ok {
			decoded = append(decoded, full)
		} else {
			decoded = append(decoded, part)
		}
	}
	return strings.Join(decoded, " ")
}
