package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Classification
	ClsUnrecognizedExtension Code = 1001
	ClsMissingFilePath       Code = 1002

	// Validator findings and invocation
	ValCompile     Code = 2001
	ValLink        Code = 2002
	ValInvokeError Code = 2100
	ValNotFound    Code = 2101

	// IO
	IOLoadFileError Code = 4001

	// Configuration
	CfgParseError Code = 5001
)

var codeDescription = map[Code]string{
	UnknownCode:              "unknown diagnostic",
	ClsUnrecognizedExtension: "filename matches no shader naming convention",
	ClsMissingFilePath:       "shader file path could not be determined",
	ValCompile:               "validator compile finding",
	ValLink:                  "validator link finding",
	ValInvokeError:           "failed to invoke the validator",
	ValNotFound:              "validator executable not found",
	IOLoadFileError:          "failed to load file",
	CfgParseError:            "failed to parse configuration",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("CLS%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("VAL%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("CFG%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
