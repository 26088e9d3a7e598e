// Command echo demonstrates the supervision channel end to end.
//
// Run without arguments it acts as the supervisor: it re-executes itself as
// a child connected by a duplex channel, plays a ping/pong exchange over it,
// asks the child to shut down and reaps it. The child role is selected by
// the spawn marker in the environment, so the same binary serves both sides.
package main
