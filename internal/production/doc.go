// Package production defines the cached production record and the rules that
// shape it: slugs, date-range parsing and change detection.
//
// A Catalog holds records keyed by slug and is handed explicitly to every
// operation. Re-storing a slug replaces the previous record; nothing is ever
// removed automatically.
//
// Date phrases on production pages look like "Jan. 16 - Jan. 24, 2026
// Fridays-Saturdays". ParseDateRange handles the heading form and
// FindFullDateText searches the rest of a page when the heading has no year.
package production
