package database

// RootDescriptor records one of the filesystem roots the Crawler was asked
// to index. EntryID points at the root's own Entry (Parent == NoParent),
// so PathOf and ChildrenOf compose without a special case for the top of
// each tree.
type RootDescriptor struct {
	Path    string
	EntryID int32
}
