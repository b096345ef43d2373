package source

// FileID identifies one input document handed over by the front end.
type FileID uint32 // просто ID источника

// NoFileID marks spans synthesized by the converter itself.
const NoFileID FileID = 0
