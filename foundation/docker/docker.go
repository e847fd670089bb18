// Package docker provides starting and stopping of docker containers for
// tests.
package docker

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os/exec"
)

// Container represents the info about a running container.
type Container struct {
	Id       string
	HostPort string
	Name     string
}

// StartContainer runs a container off the provided image and reports where
// the exposed port got bound on the host.
func StartContainer(image string, name string, port string, dockerArgs []string, imageArgs []string) (Container, error) {
	args := []string{"run", "-P", "-d", "--name", name}
	args = append(args, dockerArgs...)
	args = append(args, image)
	args = append(args, imageArgs...)

	var output bytes.Buffer
	command := exec.Command("docker", args...)
	command.Stdout = &output
	if err := command.Run(); err != nil {
		return Container{}, fmt.Errorf("start container for image %s: %w", image, err)
	}

	id := output.String()[:12]

	host, boundPort, err := extractHostPort(id, port)
	if err != nil {
		return Container{}, fmt.Errorf("extract host/port: %w", err)
	}

	c := Container{
		Id:       id,
		HostPort: net.JoinHostPort(host, boundPort),
		Name:     name,
	}

	return c, nil
}

// Stop stops the container and removes it as well.
func (c Container) Stop() error {
	command := exec.Command("docker", "stop", c.Id)
	if err := command.Run(); err != nil {
		return fmt.Errorf("stopping container %s: %w", c.Id, err)
	}

	command = exec.Command("docker", "rm", c.Id)
	if err := command.Run(); err != nil {
		return fmt.Errorf("removing container %s: %w", c.Id, err)
	}

	return nil
}

// DumpLogs returns the combined stdout/stderr logs of the container.
func (c Container) DumpLogs() []byte {
	logs, err := exec.Command("docker", "logs", c.Id).CombinedOutput()
	if err != nil {
		return nil
	}
	return logs
}

func extractHostPort(id string, port string) (ip string, boundPort string, err error) {
	template := fmt.Sprintf("[{{range $k,$v := (index .NetworkSettings.Ports \"%s/tcp\")}}{{json $v}}{{end}}]", port)

	command := exec.Command("docker", "inspect", "-f", template, id)
	var output bytes.Buffer
	command.Stdout = &output

	if err := command.Run(); err != nil {
		return "", "", fmt.Errorf("inspect container %s: %w", id, err)
	}

	// Got  [{"HostIp":"0.0.0.0","HostPort":"49190"}{"HostIp":"::","HostPort":"49190"}]
	// Need [{"HostIp":"0.0.0.0","HostPort":"49190"},{"HostIp":"::","HostPort":"49190"}]
	data := bytes.ReplaceAll(output.Bytes(), []byte("}{"), []byte("},{"))

	var results []struct {
		HostIp   string
		HostPort string
	}

	if err := json.Unmarshal(data, &results); err != nil {
		return "", "", fmt.Errorf("unmarshal data: %w", err)
	}

	for _, result := range results {
		if result.HostIp != "::" {
			if result.HostIp == "" {
				return "localhost", result.HostPort, nil
			}
			return result.HostIp, result.HostPort, nil
		}
	}

	return "", "", errors.New("no host port found")
}
