// Package watch provides a full-screen monitor that keeps the topology
// map up to date.
//
// The map is refreshed every interval, or immediately with "r". A refresh
// that fails keeps the previous map on screen and shows the error below
// it. Refreshes never overlap.
package watch
