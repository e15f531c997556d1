// Package presenter tracks the single live presentation pointer. The
// pointer is addressed by item and sub-index so it survives edits elsewhere
// in the collection; when its own frame disappears the pointer goes stale
// and the next movement starts from the beginning.
package presenter
