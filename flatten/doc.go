// Package flatten turns a nested tree of containers into a single-level map
// whose keys are the dot-joined paths to the tree's leaves.
//
// Scalars and arrays are leaves; arrays are stored as a whole and never
// descended into. Containers are only structure and never appear in the
// output. Two paths may render to the same key (a container key can contain
// the separator); by default the path visited last wins.
package flatten
