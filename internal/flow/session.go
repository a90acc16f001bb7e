package flow

// EffectiveSessionID prefers the session handed over from the quiz.
func EffectiveSessionID(quizSession, flowSession string) string {
	if quizSession != "" {
		return quizSession
	}
	return flowSession
}
