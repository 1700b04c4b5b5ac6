package riot

// Account is the account-v1 response used to resolve Riot IDs to PUUIDs.
type Account struct {
	PUUID    string `json:"puuid"`
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
}
