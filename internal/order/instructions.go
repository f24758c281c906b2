package order

import "strings"

var instructionMap = map[PaymentMethod][]string{
	PaymentCash: {
		"Your order will be delivered to {{address}}",
		"Prepare {{amount}} in cash when the courier arrives",
		"Pay the courier directly and keep the delivery slip",
	},
	PaymentMomo: {
		"Open the MoMo app",
		"Transfer {{amount}} to the shop's MoMo wallet",
		"Use order note \"{{name}}\" so the shop can match your payment",
		"Keep the MoMo transaction receipt",
	},
}

// Instructions returns the payment steps for m.
func Instructions(m PaymentMethod) []string {
	if steps, ok := instructionMap[m]; ok {
		return steps
	}
	return []string{"Follow the payment instructions sent by the shop"}
}

type InstructionVars map[string]string

// InjectVariables fills {{key}} placeholders; unknown ones are left as is.
func InjectVariables(steps []string, vars InstructionVars) []string {
	result := make([]string, 0, len(steps))
	for _, step := range steps {
		for key, value := range vars {
			step = strings.ReplaceAll(step, "{{"+key+"}}", value)
		}
		result = append(result, step)
	}
	return result
}
