package gplay

const (
	APIBaseURL = "https://android.clients.google.com"

	AuthURL    = APIBaseURL + "/auth"
	CheckinURL = APIBaseURL + "/checkin"

	FDFEUrl               = APIBaseURL + "/fdfe/"
	UploadDeviceConfigURL = FDFEUrl + "uploadDeviceConfig"
)
