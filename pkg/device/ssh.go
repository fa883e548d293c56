// The device package talks to the DUT itself (as opposed to the PDUs that
// power it): an SSH command runner for fact gathering and the credential
// lookup shared with the other remote-access paths.
package device

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"
)

// SSHRunner executes commands on a DUT over a persistent SSH connection.
// It satisfies intf.CommandRunner.
type SSHRunner struct {
	host   string
	client *ssh.Client
}

// DialSSH opens an SSH connection to host (host:port when a port is
// included, port 22 otherwise) with password authentication. Lab devices
// get reimaged constantly, so host keys are not verified.
func DialSSH(host string, username string, password string, timeout time.Duration) (*SSHRunner, error) {
	addr := host
	if !strings.Contains(addr, ":") {
		addr += ":22"
	}
	config := &ssh.ClientConfig{
		User:            username,
		Auth:            []ssh.AuthMethod{ssh.Password(password)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         timeout,
	}
	client, err := ssh.Dial("tcp", addr, config)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", addr, err)
	}
	return &SSHRunner{host: host, client: client}, nil
}

// Run executes one command and returns its combined output split into
// lines, with the trailing newline removed.
func (r *SSHRunner) Run(command string) ([]string, error) {
	session, err := r.client.NewSession()
	if err != nil {
		return nil, fmt.Errorf("failed to open session to %s: %w", r.host, err)
	}
	defer session.Close()

	output, err := session.CombinedOutput(command)
	if err != nil {
		return nil, fmt.Errorf("command %q failed on %s: %w", command, r.host, err)
	}
	return strings.Split(strings.TrimRight(string(output), "\n"), "\n"), nil
}

func (r *SSHRunner) Close() error {
	return r.client.Close()
}
