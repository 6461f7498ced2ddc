// Package gridastar provides an A* pathfinding engine over dense 2-D grids of
// walkable and blocked cells.
//
// It exposes two main entry points:
//
//   - FindPath: run the search to completion on a Grid and get a Result.
//   - Stepper: advance the search one iteration at a time to drive UIs or debugging tools.
//
// Both share the same engine, so stepping a search to its end yields exactly the
// path FindPath returns. A Grid is borrowed exclusively by one run at a time;
// independent grids may be searched concurrently with SearchAll.
package gridastar
