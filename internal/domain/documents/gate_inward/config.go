package gate_inward

// NumberPrefix is used for generated GRN numbers (GRN-001).
const NumberPrefix = "GRN"

const displayName = "gate inward"
