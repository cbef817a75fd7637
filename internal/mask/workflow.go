package mask

// Workflow is the backend edit path chosen for a submission.
type Workflow string

const (
	// Inpaint regenerates only the masked region.
	Inpaint Workflow = "inpaint"
	// Edit applies the prompt to the whole image.
	Edit Workflow = "edit"
)

// Decide picks the workflow. Without any drawing the prompt edits the whole
// image. With drawing the mask is used only when it exists; a drawing that
// produced too few dark pixels falls back to a whole-image edit.
func Decide(drawn bool, st Stats, opts Options) Workflow {
	if drawn && st.Exists(opts) {
		return Inpaint
	}
	return Edit
}
