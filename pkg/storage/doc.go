// Package storage manages the local photo directory.
//
// Writes go through a temporary ".<name>.<uuid>.part" file in the same
// directory that is fsynced and renamed onto the final name, so readers and
// later runs only ever see complete files. Exists is a plain stat: a file
// present under its final name is treated as already downloaded.
//
//	m, err := storage.NewManager("./Photos")
//	name, _ := storage.FileNameFromURL(photo.ImgSrc)
//	if !m.Exists(name) {
//	    n, err := m.Save(body, name)
//	}
package storage
