package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Конвертация
	ConvInfo             Code = 1000
	ConvUnsupported      Code = 1001
	ConvInternal         Code = 1002
	ConvNoExitTarget     Code = 1003
	ConvCopyInOnly       Code = 1004 // by-ref argument that cannot be written back
	ConvCancelled        Code = 1005
	ConvUnitLimitReached Code = 1006

	// Ввод
	IOLoadFileError  Code = 2000
	IOFixtureSchema  Code = 2001
	IOFixtureDecode  Code = 2002
	IOCacheCorrupted Code = 2003

	// Наблюдаемость
	ObsInfo    Code = 3000
	ObsTimings Code = 3001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:          "Unknown error",
		ConvInfo:             "Conversion information",
		ConvUnsupported:      "Statement cannot be converted",
		ConvInternal:         "Internal conversion failure",
		ConvNoExitTarget:     "Exit outside of a matching block",
		ConvCopyInOnly:       "By-ref argument is passed by value",
		ConvCancelled:        "Conversion cancelled",
		ConvUnitLimitReached: "Too many diagnostics",
		IOLoadFileError:      "I/O load file error",
		IOFixtureSchema:      "Unsupported document schema",
		IOFixtureDecode:      "Malformed document",
		IOCacheCorrupted:     "Cache entry corrupted",
		ObsInfo:              "Observability information",
		ObsTimings:           "Pipeline timings",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("CNV%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
