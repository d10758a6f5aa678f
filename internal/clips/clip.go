package clips

// Chapter names the interview chapter a clip belongs to.
type Chapter struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
}

// Clip is one curated excerpt. Only StartTime, EndTime and Duration are
// rewritten by realignment; every other field passes through untouched.
type Clip struct {
	ID             string   `json:"id" yaml:"id"`
	Title          string   `json:"title" yaml:"title"`
	StartTime      float64  `json:"startTime" yaml:"startTime" validate:"gte=0"`
	EndTime        float64  `json:"endTime" yaml:"endTime" validate:"gte=0"`
	Duration       float64  `json:"duration" yaml:"duration" validate:"gte=0"`
	Chapter        Chapter  `json:"chapter" yaml:"chapter"`
	InterviewID    string   `json:"interviewId" yaml:"interviewId" validate:"required"`
	InterviewTitle string   `json:"interviewTitle" yaml:"interviewTitle"`
	Transcript     string   `json:"transcript" yaml:"transcript"`
	Themes         []string `json:"themes" yaml:"themes" validate:"dive,required"`
}

// Validate checks the fields realignment relies on. A failing clip is
// skipped by a run and written back unchanged; an empty quote is not a field
// error and is reported as unresolved instead.
func (c Clip) Validate() error {
	if err := validate.Struct(c); err != nil {
		return describeValidation(c.ID, err)
	}
	return nil
}

// WithTimes returns a copy of c spanning start..end.
func (c Clip) WithTimes(start, end float64) Clip {
	c.StartTime = start
	c.EndTime = end
	c.Duration = end - start
	return c
}
