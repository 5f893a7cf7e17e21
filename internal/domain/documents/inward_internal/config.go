package inward_internal

// NumberPrefix is used for generated receipt numbers (REC-001).
const NumberPrefix = "REC"

const displayName = "inward internal"
