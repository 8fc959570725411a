// Package content generates reply, tweet, and thread text from a
// BusinessProfile via an llmprovider.Provider, building a prompt from the
// profile's sections and calling the LLM.
package content

// BusinessProfile describes the account's product and voice — the
// generalized form of an ad hoc Personality map[string]string.
type BusinessProfile struct {
	ProductName     string
	Description     string
	Audience        string
	Keywords        []string
	Topics          []string
	VoiceStyle      string
	PersonaOpinions []string
	Pillars         []string
	// TargetUsernames are accounts the target loop watches for
	// relationship-building replies, independent of Keywords-driven
	// discovery search.
	TargetUsernames []string
}

// Archetype is a reply posture; the chosen value is surfaced in the
// output so downstream analytics can attribute engagement to it.
type Archetype string

const (
	ArchetypeAgreeAndExpand     Archetype = "AgreeAndExpand"
	ArchetypeRespectfulDisagree Archetype = "RespectfulDisagree"
	ArchetypeAddData            Archetype = "AddData"
	ArchetypeAskQuestion        Archetype = "AskQuestion"
	ArchetypeShareExperience    Archetype = "ShareExperience"
)

var allArchetypes = []Archetype{
	ArchetypeAgreeAndExpand,
	ArchetypeRespectfulDisagree,
	ArchetypeAddData,
	ArchetypeAskQuestion,
	ArchetypeShareExperience,
}

// ThreadStructure is a narrative shape for a generated thread.
type ThreadStructure string

const (
	StructureTransformation ThreadStructure = "Transformation"
	StructureFramework      ThreadStructure = "Framework"
	StructureMistakes       ThreadStructure = "Mistakes"
	StructureAnalysis       ThreadStructure = "Analysis"
)

var allStructures = []ThreadStructure{
	StructureTransformation,
	StructureFramework,
	StructureMistakes,
	StructureAnalysis,
}

// ReplyResult is the output of GenerateReply.
type ReplyResult struct {
	Text      string
	Archetype Archetype
}

// ThreadResult is the output of GenerateThreadWithStructure.
type ThreadResult struct {
	Tweets    []string
	Structure ThreadStructure
}
