package fsutil

// File and directory permission constants used consistently across the
// download store, build directories and completion markers.
const (
	// FileModeDefault is the mode for regular files such as fetched archives.
	FileModeDefault = 0o644
	// FileModeMarker is the mode for completion marker files.
	FileModeMarker = 0o644
	// FileModeExec is the mode for executable files.
	FileModeExec = 0o755

	// DirModeDefault is the mode for build and download directories.
	DirModeDefault = 0o755
	// DirModePrivate is the mode for transient checkout directories.
	DirModePrivate = 0o700
)
