// Package domain contains the core business entities of the task manager:
// users, tasks, the drafts collaborators submit to create them, and the
// urgency policy that decides which tasks are mirrored into the cache. It is
// independent of any specific store or delivery mechanism.
package domain
