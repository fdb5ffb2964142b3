package testx

// FileToUpload represents a file that was part of the multipart form data.
type FileToUpload struct {
	FieldName string
	FileName  string
	Content   []byte
}

// FormData represents the data of a multipart/form-data request.
type FormData struct {
	Fields map[string]string
	Files  []FileToUpload
}

// FileNames returns the file name of every file part, in order.
func (f FormData) FileNames() []string {
	names := make([]string, 0, len(f.Files))
	for _, file := range f.Files {
		names = append(names, file.FileName)
	}
	return names
}
