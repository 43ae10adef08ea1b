package workflow

// System icons live in the macOS CoreTypes bundle; the rest ship inside
// the workflow directory.
const systemIconDir = "/System/Library/CoreServices/CoreTypes.bundle/Contents/Resources"

var (
	// IconWorkflow is the workflow's own icon
	IconWorkflow = &Icon{Path: "icon.png"}

	// IconUpdate marks the update-available row
	IconUpdate = &Icon{Path: "update-available.png"}

	// IconWarning marks empty-result warnings
	IconWarning = &Icon{Path: systemIconDir + "/AlertCautionIcon.icns"}

	// IconError marks rescued run failures
	IconError = &Icon{Path: systemIconDir + "/AlertStopIcon.icns"}
)
