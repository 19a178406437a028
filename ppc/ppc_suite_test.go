package ppc_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestPPC(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "PPC Suite")
}
