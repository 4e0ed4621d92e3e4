// Package menu implements the interactive text front end. It reads numbered
// choices and free-text answers from a reader, turns them into drafts and
// identifiers for the task service, and prints the outcome.
package menu
