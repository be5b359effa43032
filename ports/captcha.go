package ports

// CaptchaGenerator renders a puzzle and returns its base64 image together
// with the expected answer.
type CaptchaGenerator interface {
	Generate() (image string, answer string, err error)
}
