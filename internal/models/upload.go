package models

// UploadFile is a file picked by the user, held in memory.
type UploadFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

func (f UploadFile) Size() int64 {
	return int64(len(f.Data))
}

// UploadTarget is a single-use write destination for one file name.
type UploadTarget struct {
	FileName     string `json:"file_name"`
	WriteAddress string `json:"write_address"`
}
