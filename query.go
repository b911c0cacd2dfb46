package main

import (
	"strconv"
	"strings"
)

// onlineExpr mirrors the presence TTL: a member counts as online when their
// last activity is fresher than 90 seconds (see presence.go).
const onlineExpr = "COALESCE(u.last_online > NOW() - INTERVAL '90 seconds', FALSE)"

const candidateProjection = `SELECT u.id,
       COALESCE(p.display_name, 'Member ' || u.id::text),
       u.created_at,
       COALESCE(p.age, 0),
       p.height_cm,
       COALESCE(p.body_type, ''),
       COALESCE(p.ethnicity, ''),
       COALESCE(p.relationship_status, ''),
       COALESCE(p.bio, ''),
       COALESCE(p.interests, ''),
       p.location_lat,
       p.location_lon,
       COALESCE(p.city, ''),
       (SELECT ph.path FROM user_photos ph
         WHERE ph.user_id = u.id AND ph.is_primary
         ORDER BY ph.id LIMIT 1),
       ` + onlineExpr + `,
       u.last_online
FROM users u
JOIN profiles p ON p.user_id = u.id`

// predicate is one typed filter clause. Every implementation binds caller
// data through queryBuilder.bind, never into the query text itself.
type predicate interface {
	sql(qb *queryBuilder) string
}

type queryBuilder struct {
	conds []string
	args  []any
}

// bind appends a value to the argument list and returns its placeholder.
func (qb *queryBuilder) bind(v any) string {
	qb.args = append(qb.args, v)
	return "$" + strconv.Itoa(len(qb.args))
}

func (qb *queryBuilder) where(p predicate) {
	if clause := p.sql(qb); clause != "" {
		qb.conds = append(qb.conds, clause)
	}
}

// rawWhere is for clauses with no caller-controlled content, or whose
// placeholders were already bound by the caller.
func (qb *queryBuilder) rawWhere(clause string) {
	qb.conds = append(qb.conds, clause)
}

// Equals matches a column (or SQL expression) against one bound value.
type Equals struct {
	Column string
	Value  any
}

func (p Equals) sql(qb *queryBuilder) string {
	return p.Column + " = " + qb.bind(p.Value)
}

// Range is an inclusive numeric range; a nil bound leaves that side open.
type Range struct {
	Column string
	Min    *int
	Max    *int
}

func (p Range) sql(qb *queryBuilder) string {
	var parts []string
	if p.Min != nil {
		parts = append(parts, p.Column+" >= "+qb.bind(*p.Min))
	}
	if p.Max != nil {
		parts = append(parts, p.Column+" <= "+qb.bind(*p.Max))
	}
	return strings.Join(parts, " AND ")
}

// OneOf matches a column against any of the selected tokens. Each token gets
// its own placeholder so arbitrary token content stays correctly escaped.
type OneOf struct {
	Column string
	Values []string
}

func (p OneOf) sql(qb *queryBuilder) string {
	if len(p.Values) == 0 {
		return ""
	}
	placeholders := make([]string, len(p.Values))
	for i, v := range p.Values {
		placeholders[i] = qb.bind(v)
	}
	return p.Column + " IN (" + strings.Join(placeholders, ", ") + ")"
}

// Exists is an existence check against a correlated subquery. Used instead
// of a join for the photo flag so rows never duplicate.
type Exists struct {
	Subquery string
}

func (p Exists) sql(*queryBuilder) string {
	return "EXISTS (" + p.Subquery + ")"
}

// SubstringMatch is a case-insensitive substring test across several
// columns. One bound pattern, reused per column ($n may repeat in Postgres).
type SubstringMatch struct {
	Columns []string
	Term    string
}

func (p SubstringMatch) sql(qb *queryBuilder) string {
	pattern := qb.bind("%" + strings.ToLower(p.Term) + "%")
	parts := make([]string, len(p.Columns))
	for i, col := range p.Columns {
		parts[i] = "LOWER(" + col + ") LIKE " + pattern
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}

// buildCandidateQuery renders one parameterized bulk query for the given
// viewer and validated spec. The viewer self-exclusion and the bidirectional
// block exclusion are appended before any optional filter so blocked
// identities are removed at the relational layer, not in memory.
//
// LIMIT/OFFSET are applied here, before the in-memory radius filter: when
// max_distance trims the page, the caller can receive fewer than Limit rows
// for that page. That underfill is deliberate and preserved.
func buildCandidateQuery(viewerID int, spec *FilterSpec) (string, []any) {
	qb := &queryBuilder{}

	viewer := qb.bind(viewerID)
	qb.rawWhere("u.id <> " + viewer)
	qb.rawWhere(`NOT EXISTS (
    SELECT 1 FROM user_blocks b
    WHERE (b.user_id = ` + viewer + ` AND b.blocked_user_id = u.id)
       OR (b.user_id = u.id AND b.blocked_user_id = ` + viewer + `)
)`)

	if spec.MinAge != nil || spec.MaxAge != nil {
		qb.where(Range{Column: "p.age", Min: spec.MinAge, Max: spec.MaxAge})
	}
	qb.where(OneOf{Column: "p.body_type", Values: spec.BodyTypes})
	qb.where(OneOf{Column: "p.ethnicity", Values: spec.Ethnicities})
	qb.where(OneOf{Column: "p.relationship_status", Values: spec.RelationshipStatuses})
	if spec.HeightMin != nil || spec.HeightMax != nil {
		qb.where(Range{Column: "p.height_cm", Min: spec.HeightMin, Max: spec.HeightMax})
	}
	if spec.Education != nil {
		qb.where(Equals{Column: "p.education", Value: *spec.Education})
	}
	if spec.Smoking != nil {
		qb.where(Equals{Column: "p.smoking", Value: *spec.Smoking})
	}
	if spec.Drinking != nil {
		qb.where(Equals{Column: "p.drinking", Value: *spec.Drinking})
	}
	if spec.WantsKids != nil {
		qb.where(Equals{Column: "p.wants_kids", Value: *spec.WantsKids})
	}
	switch spec.HasKids {
	case TriTrue:
		qb.where(Equals{Column: "p.has_kids", Value: true})
	case TriFalse:
		qb.where(Equals{Column: "p.has_kids", Value: false})
	}
	if spec.OnlyWithPhotos {
		qb.where(Exists{Subquery: "SELECT 1 FROM user_photos ph WHERE ph.user_id = u.id"})
	}
	if spec.OnlyOnline {
		qb.where(Equals{Column: onlineExpr, Value: true})
	}
	if spec.Keyword != "" {
		qb.where(SubstringMatch{
			Columns: []string{"p.bio", "p.interests", "p.display_name"},
			Term:    spec.Keyword,
		})
	}

	var sb strings.Builder
	sb.WriteString(candidateProjection)
	sb.WriteString("\nWHERE ")
	sb.WriteString(strings.Join(qb.conds, "\n  AND "))
	// Online-first, most-recently-active first; id last for a stable page
	// order when activity timestamps collide.
	sb.WriteString("\nORDER BY " + onlineExpr + " DESC, u.last_online DESC NULLS LAST, u.id")
	sb.WriteString("\nLIMIT " + qb.bind(spec.Limit) + " OFFSET " + qb.bind(spec.Offset))

	return sb.String(), qb.args
}
