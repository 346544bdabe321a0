package diagfmt

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto prints paths as the compiler reported them.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// PrettyOpts configures pretty-printing of diagnostics and fix previews.
type PrettyOpts struct {
	Color    bool
	Context  int // строк контекста до и после
	PathMode PathMode
	BaseDir  string // для PathModeRelative, пусто - рабочая директория
	Width    int    // максимальная ширина строки, 0 - не ограничено
}
