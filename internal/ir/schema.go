package ir

import "clausetree/internal/roles"

// ClauseRecord is one clause of the exported clause tree. Ids are positions
// in SentenceResult.ClauseTree.
type ClauseRecord struct {
	ID          int     `json:"id"`
	Text        string  `json:"text"`
	StartIdx    int     `json:"start_idx"`
	EndIdx      int     `json:"end_idx"`
	Type        string  `json:"type"`
	Role        string  `json:"role"`
	Depth       int     `json:"depth"`
	ParentID    *int    `json:"parent_id"`
	ChildrenIDs []int   `json:"children_ids"`
	MainVerb    *string `json:"main_verb"`
	Subject     *string `json:"subject"`
	Connector   *string `json:"connector"`
}

// CoordRecord is a coordination pair rendered as surface text.
type CoordRecord struct {
	Type        string `json:"type"`
	First       string `json:"first"`
	Conjunction string `json:"conjunction"`
	Second      string `json:"second"`
}

// SentenceResult is the analysis of one sentence.
type SentenceResult struct {
	Sentence       string `json:"sentence"`
	SentenceNumber int    `json:"sentence_number"`

	ClauseTree []ClauseRecord `json:"clause_tree"`

	// clause id -> verb text -> roles
	VerbNPRoles map[string]map[string]*roles.Roles `json:"verb_np_roles"`

	// verb text -> description
	ImpliedSubjects map[string]string `json:"implied_subjects"`

	CoordStructures []CoordRecord `json:"coord_structures"`
}

// BatchResult collects the sentences that were analyzed successfully.
// TotalSentences counts every sentence, including the ones that failed.
type BatchResult struct {
	TotalSentences int              `json:"total_sentences"`
	Results        []SentenceResult `json:"results"`
}
