package issue_note

// NumberPrefix is used for generated issue numbers (ISS-001).
const NumberPrefix = "ISS"

const displayName = "issue note"
