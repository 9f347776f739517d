package consultation

// prompts.go holds the fixed side-prompt texts sent to the text-generation
// client. Keeping them in one file makes the wording easy to tweak without
// touching the orchestration code.

const (
	// hintInstruction asks for one suggested next question. The rendered
	// dialogue is appended after it.
	hintInstruction = "You are a Calgary Cambridge communication expert. Based on the conversation history below, " +
		"provide one single, concise suggested next question that the user should ask to advance the history-taking interview. " +
		"Your suggestion must ensure that essential patient details—such as demographics, personal history, or key symptoms—are addressed. " +
		"If the conversation does not include any questions asking for the patient's name and/or date of birth, " +
		"your suggestion should explicitly include a question to gather them. " +
		"Include a brief justification (1-2 sentences) for your suggestion. Format your answer as a single bullet point.\n" +
		"Conversation history:"

	// feedbackInstruction asks the examiner persona for the rubric-scored
	// evaluation as a fixed JSON shape. Only the user's side of the dialogue
	// is appended after it.
	feedbackInstruction = "You are an examiner, not a patient. Cease all patient role-playing immediately. " +
		"Your task is to analyse the conversation history and provide detailed feedback on the user's communication and " +
		"history-taking skills using the Calgary-Cambridge model. Also evaluate their clinical reasoning using " +
		"hypothetical-deductive reasoning, dual-process theory, and Bayesian theory, noting any biases. " +
		"Use specific examples from the dialogue provided. Keep feedback constructive, clear, and professional. " +
		"Use British English spellings. Respond with nothing but a JSON object of exactly this shape:\n" +
		"{\n" +
		"  \"initiating_session\": {\"score\": 1-10, \"comment\": \"...\"},\n" +
		"  \"gathering_information\": {\"score\": 1-10, \"comment\": \"...\"},\n" +
		"  \"physical_examination\": {\"score\": 1-10, \"comment\": \"...\"},\n" +
		"  \"explanation_planning\": {\"score\": 1-10, \"comment\": \"...\"},\n" +
		"  \"closing_session\": {\"score\": 1-10, \"comment\": \"...\"},\n" +
		"  \"building_relationship\": {\"score\": 1-10, \"comment\": \"...\"},\n" +
		"  \"providing_structure\": {\"score\": 1-10, \"comment\": \"...\"},\n" +
		"  \"overall\": 0-70,\n" +
		"  \"clinical_reasoning\": \"...\"\n" +
		"}\n" +
		"overall is the sum of the seven scores. Here is the user's side of the consultation to review:"

	// examBaseInstruction turns the model into an objective findings reporter.
	examBaseInstruction = "You are reporting the findings of a focused physical examination in a history-taking simulation. " +
		"Respond only with objective examination findings, written the way a clinician would record them, with no dialogue."

	// vitalsClause always opens the readout with a full set of observations.
	vitalsClause = "Begin with a full set of vital signs: temperature, heart rate, blood pressure, respiratory rate and oxygen saturation."
)

// ReinforcementMarker is the substring whose presence anywhere in the
// transcript means the reinforcement message has already been injected.
const ReinforcementMarker = "stay fully in character as the patient"

// reinforcementMessage is injected as a system message every few user turns
// to keep the model from drifting out of role. It contains the marker.
const reinforcementMessage = "Reminder: " + ReinforcementMarker + " described above. " +
	"Never reveal that you are an AI, never swap roles with the user, and keep every answer consistent with your scenario."

// Failure placeholders. Remote failures are stored as visible text where the
// reply would have gone, so the consultation keeps flowing during an outage.
const (
	apiErrorPrefix      = "Error with API: "
	feedbackErrorPrefix = "Error generating feedback: "
)
