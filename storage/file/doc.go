// Package file provides filesystem access for configuration adapters.
//
// A Store reads whole configuration files and writes them back in full.
// It is built on github.com/spf13/afero so callers and tests can swap the
// operating system filesystem for an in-memory or base-path restricted one.
//
// Usage:
//
//	store := file.NewStore(afero.NewOsFs())
//	data, err := store.Read("/etc/app/config.ini")
//	if err != nil {
//	    // Handle error: file not found, permission denied, path is directory, etc.
//	}
//	err = store.Write("/etc/app/config.ini", data)
//
// Error Handling:
//   - Read returns an error if the file cannot be read or the path is a directory
//   - Errors include the filepath for easier debugging
//   - Use errors.Is(err, file.ErrPathIsDirectory) to check for directory errors
//
// A nil *Store is valid and behaves like a Store over the OS filesystem.
package file
