// Package listing filters, sorts and paginates resource and mapping collections.
//
// Every function is pure: no I/O, no shared state. Sorting is stable and
// breaks ties on the entity's identity so repeated calls on identical input
// produce identical output. Pagination uses opaque forward-only cursors that
// encode the last-seen sort key and identity, so appending items between
// calls never shifts a page.
package listing
