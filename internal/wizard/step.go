package wizard

// Step is a position in the sell-car wizard.
type Step int

const (
	StepDetails Step = iota + 1
	StepPhotos
	StepContact
	StepReview
)

const (
	FirstStep = StepDetails
	LastStep  = StepReview
)

var stepLabels = map[Step]string{
	StepDetails: "Details",
	StepPhotos:  "Photos",
	StepContact: "Contact",
	StepReview:  "Review",
}

var stepTitles = map[Step]string{
	StepDetails: "Tell Us About Your Car",
	StepPhotos:  "Upload Photos",
	StepContact: "Contact Information",
	StepReview:  "Review & Submit",
}

// Steps lists the wizard steps in order.
func Steps() []Step {
	return []Step{StepDetails, StepPhotos, StepContact, StepReview}
}

func (s Step) Valid() bool {
	return s >= FirstStep && s <= LastStep
}

func (s Step) Label() string {
	return stepLabels[s]
}

func (s Step) Title() string {
	return stepTitles[s]
}
