package forces_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestForces(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Forces Suite")
}
