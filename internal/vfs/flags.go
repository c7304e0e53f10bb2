package vfs

// OpFlags is the bit-set attached to every mutating
// operation (create_writer included, since its overwrite/readonly
// rules are the same collision rules copy/move/delete use).
type OpFlags uint32

const (
	OpContinueOnError OpFlags = 1 << iota
	OpAllowOverwrite
	OpAllowReplaceReadonly
	OpRecursive
	OpUseRecycleBin
)

func (f OpFlags) Has(bit OpFlags) bool { return f&bit != 0 }
