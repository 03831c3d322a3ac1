package config

const (
	// MaxFolderNameLength is the maximum length for the output folder name.
	// Drive accepts longer names, but the folder is looked up by exact name
	// on every batch and long names make that query unwieldy.
	MaxFolderNameLength = 255

	// MinSessionSecretLength is the minimum HS256 session secret length in bytes.
	MinSessionSecretLength = 32

	// MaxListedDocuments caps how many candidates one listing returns.
	// A batch is processed synchronously, so this also bounds request time.
	MaxListedDocuments = 500

	// MaxArchiveEntries caps converted documents per archive.
	MaxArchiveEntries = 500

	// MaxDownloadBytes caps a single download or export held in memory.
	MaxDownloadBytes = 50 << 20

	// MaxRequestBody caps JSON request bodies.
	MaxRequestBody = 1 << 20
)
