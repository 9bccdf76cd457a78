package types

import "unicode/utf8"

// PlayerStats holds the player's vitals and progression
type PlayerStats struct {
	Health   int  `json:"health"`
	Hunger   int  `json:"hunger"`
	Thirst   int  `json:"thirst"`
	Stamina  int  `json:"stamina"`
	Money    int  `json:"money"`
	Face     int  `json:"face"`
	HSKLevel int  `json:"hsk_level"`
	IsSick   bool `json:"is_sick"`
}

// InventoryItem is one inventory entry. Entries with the same ID may coexist.
type InventoryItem struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
}

// ItemType classifies a shop item
type ItemType string

const (
	ItemFood     ItemType = "food"
	ItemDrink    ItemType = "drink"
	ItemTool     ItemType = "tool"
	ItemMedicine ItemType = "medicine"
	ItemClothing ItemType = "clothing"
)

// ShopItem represents an item of the static catalog
type ShopItem struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Price       int      `json:"price"`
	Type        ItemType `json:"type"`
	EffectValue int      `json:"effect_value"`
}

// MaxSuggestions caps the replies offered after an NPC turn
const MaxSuggestions = 3

// Suggestion is a reply the player may pick instead of speaking freely
type Suggestion struct {
	Chinese string `json:"chinese"`
	Pinyin  string `json:"pinyin"`
	English string `json:"english"`
}

// NPC represents a non-player character
type NPC struct {
	ID                 string       `json:"id"`
	Name               string       `json:"name"`
	Role               string       `json:"role"`
	Personality        string       `json:"personality"`
	AvatarSeed         string       `json:"avatar_seed"`
	Intro              string       `json:"intro"`
	ZoneID             string       `json:"zone_id"`
	HSKLevel           int          `json:"hsk_level"`
	IsVendor           bool         `json:"is_vendor,omitempty"`
	ShopInventory      []string     `json:"shop_inventory,omitempty"`
	InitialSuggestions []Suggestion `json:"initial_suggestions,omitempty"`
}

// Zone represents an explorable area
type Zone struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	ImageSeed    string   `json:"image_seed"`
	NPCs         []string `json:"npcs"`
	MinHSK       int      `json:"min_hsk"`
	AmbientSound string   `json:"ambient_sound,omitempty"`
}

// Unlocked reports whether a player at the given level may enter the zone
func (z Zone) Unlocked(hskLevel int) bool {
	return hskLevel >= z.MinHSK
}

// JobType classifies a job
type JobType string

const (
	JobRepetition  JobType = "repetition"
	JobTranslation JobType = "translation"
)

// Job represents a paid speaking task
type Job struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	MinHSK      int     `json:"min_hsk"`
	Salary      int     `json:"salary"`
	Type        JobType `json:"type"`
}

// FallingWord is an entry of the minigame word pool
type FallingWord struct {
	Text   string `json:"text"`
	Pinyin string `json:"pinyin"`
	HSK    int    `json:"hsk"`
}

// Sender identifies who wrote a chat line
type Sender string

const (
	SenderPlayer   Sender = "player"
	SenderNPC      Sender = "npc"
	SenderSystem   Sender = "system"
	SenderExaminer Sender = "examiner"
)

// ChatMessage is one line of a conversation
type ChatMessage struct {
	Sender       Sender `json:"sender"`
	Text         string `json:"text"`
	Pinyin       string `json:"pinyin,omitempty"`
	Translation  string `json:"translation,omitempty"`
	IsCorrection bool   `json:"is_correction,omitempty"`
}

// Ghost is a penalty entity left behind by a failed conversation turn
type Ghost struct {
	ID          string  `json:"id"`
	Word        string  `json:"word"`
	Pinyin      string  `json:"pinyin"`
	Translation string  `json:"translation"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Age         int     `json:"age"`
}

// Weather is the process-wide weather
type Weather string

const (
	WeatherSunny Weather = "sunny"
	WeatherRainy Weather = "rainy"
)

// TimeOfDay cycles morning, afternoon, evening, night
type TimeOfDay string

const (
	Morning   TimeOfDay = "morning"
	Afternoon TimeOfDay = "afternoon"
	Evening   TimeOfDay = "evening"
	Night     TimeOfDay = "night"
)

// Next returns the following time of day
func (t TimeOfDay) Next() TimeOfDay {
	switch t {
	case Morning:
		return Afternoon
	case Afternoon:
		return Evening
	case Evening:
		return Night
	default:
		return Morning
	}
}

// Mode is the top-level game mode
type Mode int

const (
	ModeExploring Mode = iota
	ModeChatting
	ModeShopping // reserved
	ModeWorking
	ModeMinigame
	ModeExam
	ModePartnerRoom
	ModeGameOver
	ModeGhostBattle // reserved
)

var modeNames = map[Mode]string{
	ModeExploring:   "exploring",
	ModeChatting:    "chatting",
	ModeShopping:    "shopping",
	ModeWorking:     "working",
	ModeMinigame:    "minigame",
	ModeExam:        "exam",
	ModePartnerRoom: "partner_room",
	ModeGameOver:    "game_over",
	ModeGhostBattle: "ghost_battle",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return "unknown"
}

// MarshalText renders the mode by name in JSON payloads
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// ActionType is the directive kind a dialogue reply may carry
type ActionType string

const (
	ActionBuy     ActionType = "buy"
	ActionHeal    ActionType = "heal"
	ActionReport  ActionType = "report"
	ActionRestore ActionType = "restore"
	ActionNone    ActionType = "none"
)

// Action is an optional directive attached to a dialogue reply
type Action struct {
	Type   ActionType `json:"type"`
	ItemID string     `json:"item_id,omitempty"`
}

// DialogueRequest is sent to the dialogue service
type DialogueRequest struct {
	Utterance string        `json:"utterance"`
	NPC       NPC           `json:"npc"`
	Catalog   []ShopItem    `json:"catalog"`
	Stats     PlayerStats   `json:"stats"`
	History   []ChatMessage `json:"history"`
}

// DialogueReply is the structured reply of the dialogue service
type DialogueReply struct {
	Text        string       `json:"text"`
	Pinyin      string       `json:"pinyin"`
	Translation string       `json:"translation"`
	FaceChange  int          `json:"face_change"`
	Action      *Action      `json:"action,omitempty"`
	Suggestions []Suggestion `json:"suggestions,omitempty"`
}

// ExamRequest is sent to the exam service
type ExamRequest struct {
	Utterance string        `json:"utterance"`
	HSKLevel  int           `json:"hsk_level"`
	History   []ChatMessage `json:"history"`
}

// ExamReply is the structured reply of the exam service
type ExamReply struct {
	Text        string `json:"text"`
	Pinyin      string `json:"pinyin"`
	Translation string `json:"translation"`
	Finished    bool   `json:"finished"`
	Passed      bool   `json:"passed"`
}

// EffectKind classifies a side-effect request
type EffectKind string

const (
	EffectNotification EffectKind = "notification"
	EffectSound        EffectKind = "sound"
	EffectSpeech       EffectKind = "speech"
	EffectAmbience     EffectKind = "ambience"
	EffectNotice       EffectKind = "notice"
)

// Sound cues
const (
	SoundCorrect = "correct"
	SoundWrong   = "wrong"
	SoundCoin    = "coin"
	SoundRain    = "rain"
)

// Effect is a side-effect request for the presentation layer
type Effect struct {
	PlayerID string     `json:"player_id"`
	Kind     EffectKind `json:"kind"`
	Text     string     `json:"text,omitempty"`
	Sound    string     `json:"sound,omitempty"`
}

// SaveData is the persisted subset of the player state
type SaveData struct {
	Money     int             `json:"money"`
	HSKLevel  int             `json:"hsk_level"`
	Inventory []InventoryItem `json:"inventory"`
}

// Truncate returns at most n runes of s
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
