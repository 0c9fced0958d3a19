// Package cube holds the static geometry of the rendered cube and the two
// shader programs that draw it.
//
// The tables are immutable for the process lifetime: vertex i has color i, and
// the face list indexes the vertex table as a plain triangle list.
package cube
