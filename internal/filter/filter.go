// Package filter turns listing query parameters into a conjunction of independent
// clauses. Each clause renders itself as a MongoDB filter fragment and can also be
// evaluated against a decoded listing, so the same semantics hold in and out of
// the database.
package filter

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/IBRAHIMHAMID678/AI-Powered-Vehical-Market-Place/internal/models"
)

// Clause is one predicate derived from a single recognised parameter.
type Clause interface {
	// Doc returns the MongoDB filter fragment for this clause.
	Doc() bson.D
	// Matches evaluates the clause against a listing. Absent fields never match.
	Matches(car *models.Car) bool
}

// Filter is an immutable AND of clauses.
type Filter struct {
	clauses []Clause
}

// New returns a Filter holding the given clauses. Nil clauses are skipped.
func New(clauses ...Clause) Filter {
	return Filter{}.And(clauses...)
}

// And returns a new Filter with the extra clauses appended; f is left untouched.
func (f Filter) And(clauses ...Clause) Filter {
	out := make([]Clause, 0, len(f.clauses)+len(clauses))
	out = append(out, f.clauses...)
	for _, c := range clauses {
		if c != nil {
			out = append(out, c)
		}
	}
	return Filter{clauses: out}
}

// Len is the number of clauses.
func (f Filter) Len() int { return len(f.clauses) }

// Clauses returns a copy of the clause list.
func (f Filter) Clauses() []Clause {
	return append([]Clause(nil), f.clauses...)
}

// Doc folds every clause into a single MongoDB filter document.
//
// Clauses are never merged key-by-key: two OR groups stay two separate
// elements of the $and array.
func (f Filter) Doc() bson.D {
	switch len(f.clauses) {
	case 0:
		return bson.D{}
	case 1:
		return f.clauses[0].Doc()
	}
	parts := make(bson.A, 0, len(f.clauses))
	for _, c := range f.clauses {
		parts = append(parts, c.Doc())
	}
	return bson.D{{Key: "$and", Value: parts}}
}

// Matches reports whether the listing satisfies every clause.
func (f Filter) Matches(car *models.Car) bool {
	for _, c := range f.clauses {
		if !c.Matches(car) {
			return false
		}
	}
	return true
}
