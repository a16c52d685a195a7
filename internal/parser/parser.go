package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ghosecorp/fdbreader/internal/storage"
	"github.com/ghosecorp/fdbreader/internal/util"
)

type Parser struct {
	lexer   *Lexer
	current Token
	peek    Token
}

func NewParser(input string) *Parser {
	lexer := NewLexer(input)
	p := &Parser{lexer: lexer}
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.current = p.peek
	p.peek = p.lexer.NextToken()
}

func (p *Parser) Parse() (Statement, error) {
	var (
		stmt Statement
		err  error
	)

	switch p.current.Type {
	case TOKEN_SELECT:
		stmt, err = p.parseSelect()
	case TOKEN_SHOW:
		stmt, err = p.parseShow()
	case TOKEN_INSERT, TOKEN_UPDATE, TOKEN_DELETE, TOKEN_CREATE, TOKEN_DROP, TOKEN_ALTER, TOKEN_TRUNCATE:
		return nil, util.NewError(util.ErrReadOnly,
			fmt.Sprintf("%s is not supported, the database is opened read-only", p.current.Type), nil)
	default:
		return nil, p.errorf("unexpected token: %s", p.current.Type)
	}
	if err != nil {
		return nil, err
	}

	if p.current.Type == TOKEN_SEMICOLON {
		p.nextToken()
	}
	if p.current.Type != TOKEN_EOF {
		return nil, p.errorf("unexpected %s %q after statement", p.current.Type, p.current.Literal)
	}
	return stmt, nil
}

func (p *Parser) errorf(format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	return util.NewError(util.ErrInvalidArgument,
		fmt.Sprintf("line %d, column %d: %s", p.current.Line, p.current.Column, msg), nil)
}

func (p *Parser) parseShow() (*ShowStmt, error) {
	stmt := &ShowStmt{}

	p.nextToken() // consume SHOW

	switch p.current.Type {
	case TOKEN_TABLES:
		stmt.ShowType = "TABLES"
		p.nextToken()

	case TOKEN_ALL:
		p.nextToken()
		if p.current.Type != TOKEN_TABLES {
			return nil, p.errorf("expected TABLES after SHOW ALL")
		}
		stmt.ShowType = "ALL TABLES"
		p.nextToken()

	case TOKEN_COLUMNS:
		stmt.ShowType = "COLUMNS"
		p.nextToken()

		if p.current.Type != TOKEN_FROM {
			return nil, p.errorf("expected FROM after SHOW COLUMNS")
		}
		p.nextToken()

		if p.current.Type != TOKEN_IDENT {
			return nil, p.errorf("expected table name")
		}
		stmt.TableName = p.current.Literal
		p.nextToken()

	default:
		return nil, p.errorf("expected TABLES, ALL TABLES, or COLUMNS after SHOW")
	}

	return stmt, nil
}

var aggregateFunctions = map[string]bool{
	"COUNT": true,
	"SUM":   true,
	"AVG":   true,
	"MIN":   true,
	"MAX":   true,
}

func (p *Parser) parseSelect() (*SelectStmt, error) {
	stmt := &SelectStmt{}

	p.nextToken() // consume SELECT

	// Parse columns
	for p.current.Type != TOKEN_FROM && p.current.Type != TOKEN_EOF {
		switch {
		case p.current.Type == TOKEN_ASTERISK:
			stmt.Columns = append(stmt.Columns, "*")
			p.nextToken()

		case p.current.Type == TOKEN_IDENT && p.peek.Type == TOKEN_LPAREN:
			agg, err := p.parseAggregate()
			if err != nil {
				return nil, err
			}
			stmt.Aggregates = append(stmt.Aggregates, agg)

		case p.current.Type == TOKEN_IDENT:
			stmt.Columns = append(stmt.Columns, p.current.Literal)
			p.nextToken()

		default:
			return nil, p.errorf("unexpected %s in select list", p.current.Type)
		}

		if p.current.Type == TOKEN_COMMA {
			p.nextToken()
		}
	}

	if len(stmt.Columns) == 0 && len(stmt.Aggregates) == 0 {
		return nil, p.errorf("expected column list")
	}

	if p.current.Type != TOKEN_FROM {
		return nil, p.errorf("expected FROM")
	}
	p.nextToken()

	if p.current.Type != TOKEN_IDENT {
		return nil, p.errorf("expected table name")
	}

	stmt.TableName = p.current.Literal
	p.nextToken()

	// Parse WHERE clause
	if p.current.Type == TOKEN_WHERE {
		p.nextToken()
		where, err := p.parseWhere()
		if err != nil {
			return nil, err
		}
		stmt.Where = where
	}

	// Parse GROUP BY
	if p.current.Type == TOKEN_GROUP {
		p.nextToken()
		if p.current.Type != TOKEN_BY {
			return nil, p.errorf("expected BY after GROUP")
		}
		p.nextToken()

		for {
			if p.current.Type != TOKEN_IDENT {
				return nil, p.errorf("expected column name in GROUP BY")
			}
			stmt.GroupBy = append(stmt.GroupBy, p.current.Literal)
			p.nextToken()

			if p.current.Type == TOKEN_COMMA {
				p.nextToken()
				continue
			}
			break
		}
	}

	// Parse ORDER BY
	if p.current.Type == TOKEN_ORDER {
		p.nextToken()
		if p.current.Type != TOKEN_BY {
			return nil, p.errorf("expected BY after ORDER")
		}
		p.nextToken()

		for {
			if p.current.Type != TOKEN_IDENT {
				return nil, p.errorf("expected column name in ORDER BY")
			}

			orderBy := OrderByClause{
				Column:     p.current.Literal,
				Descending: false,
			}
			p.nextToken()

			switch p.current.Type {
			case TOKEN_DESC:
				orderBy.Descending = true
				p.nextToken()
			case TOKEN_ASC:
				p.nextToken()
			}

			stmt.OrderBy = append(stmt.OrderBy, orderBy)

			if p.current.Type == TOKEN_COMMA {
				p.nextToken()
				continue
			}
			break
		}
	}

	// Parse LIMIT
	if p.current.Type == TOKEN_LIMIT {
		p.nextToken()
		n, err := p.parseCount("LIMIT")
		if err != nil {
			return nil, err
		}
		stmt.Limit = n
	}

	// Parse OFFSET
	if p.current.Type == TOKEN_OFFSET {
		p.nextToken()
		n, err := p.parseCount("OFFSET")
		if err != nil {
			return nil, err
		}
		stmt.Offset = n
	}

	return stmt, nil
}

func (p *Parser) parseCount(clause string) (int, error) {
	if p.current.Type != TOKEN_NUMBER || strings.HasPrefix(p.current.Literal, "-") {
		return 0, p.errorf("expected number after %s", clause)
	}
	n, err := strconv.Atoi(p.current.Literal)
	if err != nil {
		return 0, p.errorf("invalid %s %q", clause, p.current.Literal)
	}
	p.nextToken()
	return n, nil
}

func (p *Parser) parseAggregate() (AggregateExpr, error) {
	fn := strings.ToUpper(p.current.Literal)
	if !aggregateFunctions[fn] {
		return AggregateExpr{}, p.errorf("unknown function %s", p.current.Literal)
	}
	agg := AggregateExpr{Function: fn}
	p.nextToken() // consume name
	p.nextToken() // consume (

	switch p.current.Type {
	case TOKEN_ASTERISK:
		agg.Column = "*"
	case TOKEN_IDENT:
		agg.Column = p.current.Literal
	default:
		return agg, p.errorf("expected column or * in %s()", fn)
	}
	p.nextToken()

	if p.current.Type != TOKEN_RPAREN {
		return agg, p.errorf("expected ) after %s argument", fn)
	}
	p.nextToken()

	agg.Alias = fmt.Sprintf("%s(%s)", fn, agg.Column)
	if p.current.Type == TOKEN_AS {
		p.nextToken()
		if p.current.Type != TOKEN_IDENT {
			return agg, p.errorf("expected alias after AS")
		}
		agg.Alias = p.current.Literal
		p.nextToken()
	}

	return agg, nil
}

func (p *Parser) parseWhere() (*WhereClause, error) {
	where := &WhereClause{}

	if p.current.Type != TOKEN_IDENT {
		return nil, p.errorf("expected column name in WHERE")
	}

	where.Column = p.current.Literal
	p.nextToken()

	// Parse operator
	switch p.current.Type {
	case TOKEN_EQUALS:
		where.Operator = "="
	case TOKEN_LT:
		where.Operator = "<"
	case TOKEN_GT:
		where.Operator = ">"
	case TOKEN_LE:
		where.Operator = "<="
	case TOKEN_GE:
		where.Operator = ">="
	case TOKEN_NE:
		where.Operator = "!="
	case TOKEN_LIKE:
		where.Operator = "LIKE"
	default:
		return nil, p.errorf("expected comparison operator, got %s", p.current.Type)
	}
	p.nextToken()

	// Parse value
	switch p.current.Type {
	case TOKEN_NUMBER:
		num, err := strconv.ParseInt(p.current.Literal, 10, 64)
		if err != nil {
			return nil, p.errorf("invalid number %q", p.current.Literal)
		}
		where.Value = storage.Value{Kind: storage.KindInteger, Int: num}
	case TOKEN_STRING:
		where.Value = storage.TextValue(p.current.Literal)
	default:
		return nil, p.errorf("expected value in WHERE")
	}
	p.nextToken()

	switch p.current.Type {
	case TOKEN_AND:
		p.nextToken()
		and, err := p.parseWhere()
		if err != nil {
			return nil, err
		}
		where.And = and
	case TOKEN_OR:
		p.nextToken()
		or, err := p.parseWhere()
		if err != nil {
			return nil, err
		}
		where.Or = or
	}

	return where, nil
}
