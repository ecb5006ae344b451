package cmd

import (
	"github.com/runvoy/ecstasks/internal/identity"

	"github.com/spf13/cobra"
)

var identityCmd = &cobra.Command{
	Use:   "identity <stack-id> <logical-resource-id>",
	Short: "Print the task identity of a custom resource",
	Long: `Prints the value used as the startedBy tag of every task the resource launches.
Use it to find the resource's tasks with the ECS console or the AWS CLI.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		NewIdentityService(NewOutputWrapper()).Show(args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(identityCmd)
}

// IdentityService derives and prints task identities.
type IdentityService struct {
	output OutputInterface
}

// NewIdentityService creates a new IdentityService.
func NewIdentityService(outputter OutputInterface) *IdentityService {
	return &IdentityService{output: outputter}
}

// Show prints the identity of the resource on stdout.
func (s *IdentityService) Show(stackID, logicalResourceID string) string {
	id := identity.Derive(stackID, logicalResourceID)
	s.output.Infof("Identity of %s", s.output.Bold(logicalResourceID))
	s.output.Println(id)
	return id
}
