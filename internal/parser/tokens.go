package parser

type TokenType int

const (
	TOKEN_ILLEGAL TokenType = iota
	TOKEN_EOF

	// Keywords
	TOKEN_SELECT
	TOKEN_FROM
	TOKEN_WHERE
	TOKEN_AND
	TOKEN_OR
	TOKEN_LIKE
	TOKEN_ORDER
	TOKEN_GROUP
	TOKEN_BY
	TOKEN_ASC
	TOKEN_DESC
	TOKEN_LIMIT
	TOKEN_OFFSET
	TOKEN_AS
	TOKEN_SHOW
	TOKEN_ALL
	TOKEN_TABLES
	TOKEN_COLUMNS

	// Statements the reader refuses
	TOKEN_INSERT
	TOKEN_UPDATE
	TOKEN_DELETE
	TOKEN_CREATE
	TOKEN_DROP
	TOKEN_ALTER
	TOKEN_TRUNCATE

	// Literals
	TOKEN_IDENT
	TOKEN_NUMBER
	TOKEN_STRING

	// Symbols
	TOKEN_COMMA
	TOKEN_SEMICOLON
	TOKEN_LPAREN
	TOKEN_RPAREN
	TOKEN_ASTERISK
	TOKEN_EQUALS
	TOKEN_LT // <
	TOKEN_GT // >
	TOKEN_LE // <=
	TOKEN_GE // >=
	TOKEN_NE // != or <>
)

type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

var tokenNames = map[TokenType]string{
	TOKEN_ILLEGAL:   "ILLEGAL",
	TOKEN_EOF:       "EOF",
	TOKEN_SELECT:    "SELECT",
	TOKEN_FROM:      "FROM",
	TOKEN_WHERE:     "WHERE",
	TOKEN_AND:       "AND",
	TOKEN_OR:        "OR",
	TOKEN_LIKE:      "LIKE",
	TOKEN_ORDER:     "ORDER",
	TOKEN_GROUP:     "GROUP",
	TOKEN_BY:        "BY",
	TOKEN_ASC:       "ASC",
	TOKEN_DESC:      "DESC",
	TOKEN_LIMIT:     "LIMIT",
	TOKEN_OFFSET:    "OFFSET",
	TOKEN_AS:        "AS",
	TOKEN_SHOW:      "SHOW",
	TOKEN_ALL:       "ALL",
	TOKEN_TABLES:    "TABLES",
	TOKEN_COLUMNS:   "COLUMNS",
	TOKEN_INSERT:    "INSERT",
	TOKEN_UPDATE:    "UPDATE",
	TOKEN_DELETE:    "DELETE",
	TOKEN_CREATE:    "CREATE",
	TOKEN_DROP:      "DROP",
	TOKEN_ALTER:     "ALTER",
	TOKEN_TRUNCATE:  "TRUNCATE",
	TOKEN_IDENT:     "IDENT",
	TOKEN_NUMBER:    "NUMBER",
	TOKEN_STRING:    "STRING",
	TOKEN_COMMA:     "COMMA",
	TOKEN_SEMICOLON: "SEMICOLON",
	TOKEN_LPAREN:    "LPAREN",
	TOKEN_RPAREN:    "RPAREN",
	TOKEN_ASTERISK:  "ASTERISK",
	TOKEN_EQUALS:    "EQUALS",
	TOKEN_LT:        "LT",
	TOKEN_GT:        "GT",
	TOKEN_LE:        "LE",
	TOKEN_GE:        "GE",
	TOKEN_NE:        "NE",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

var keywords = map[string]TokenType{
	"SELECT":   TOKEN_SELECT,
	"FROM":     TOKEN_FROM,
	"WHERE":    TOKEN_WHERE,
	"AND":      TOKEN_AND,
	"OR":       TOKEN_OR,
	"LIKE":     TOKEN_LIKE,
	"ORDER":    TOKEN_ORDER,
	"GROUP":    TOKEN_GROUP,
	"BY":       TOKEN_BY,
	"ASC":      TOKEN_ASC,
	"DESC":     TOKEN_DESC,
	"LIMIT":    TOKEN_LIMIT,
	"OFFSET":   TOKEN_OFFSET,
	"AS":       TOKEN_AS,
	"SHOW":     TOKEN_SHOW,
	"ALL":      TOKEN_ALL,
	"TABLES":   TOKEN_TABLES,
	"COLUMNS":  TOKEN_COLUMNS,
	"INSERT":   TOKEN_INSERT,
	"UPDATE":   TOKEN_UPDATE,
	"DELETE":   TOKEN_DELETE,
	"CREATE":   TOKEN_CREATE,
	"DROP":     TOKEN_DROP,
	"ALTER":    TOKEN_ALTER,
	"TRUNCATE": TOKEN_TRUNCATE,
}

func LookupKeyword(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return TOKEN_IDENT
}
