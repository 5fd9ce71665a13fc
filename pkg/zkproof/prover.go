package zkproof

import (
	"crypto/sha256"
	"fmt"
	"math/big"
	"os"
	"sync"

	"github.com/consensys/gnark-crypto/ecc"
	groth16_bn254 "github.com/consensys/gnark/backend/groth16/bn254"

	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
)

// limbWidth is the number of limbs a 32-byte value is split into for
// the circuit's linear commitment.
const limbWidth = 4

// Witness is the prover's private input: the native ES256 check's
// outcome plus the content hash and PublicOutputs bytes it attests to.
type Witness struct {
	ContentHash    [32]byte
	PublicOutputs  []byte
	SignatureValid bool
	HasC2PA        bool
	TrustLevel     int
}

// Proof is a Groth16 proof over PublicOutputsCircuit, exported as raw
// curve coordinates (the same G1/G2 big.Int shape the reference
// validator's BLS prover exports for its own proofs) plus the public
// inputs it was generated against.
type Proof struct {
	Ar                    [2]big.Int
	Bs                    [2][2]big.Int
	Krs                   [2]big.Int
	ContentHashCommitment big.Int
	OutputsCommitment     big.Int
	HasC2PA               bool
	TrustLevel            int
}

// Prover compiles PublicOutputsCircuit once and reuses the resulting
// proving/verifying key for every proof, mirroring the reference
// validator's BLSZKProver lifecycle.
type Prover struct {
	mu          sync.RWMutex
	cs          constraint.ConstraintSystem
	pk          groth16.ProvingKey
	vk          groth16.VerifyingKey
	initialized bool
}

// NewProver returns an uninitialized Prover; call Initialize or
// InitializeFromKeys before GenerateProof.
func NewProver() *Prover {
	return &Prover{}
}

// Initialize compiles the circuit and runs a fresh Groth16 trusted
// setup. Idempotent: a second call is a no-op.
func (p *Prover) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.initialized {
		return nil
	}

	var circuit PublicOutputsCircuit
	cs, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, &circuit)
	if err != nil {
		return fmt.Errorf("zkproof: compile circuit: %w", err)
	}

	pk, vk, err := groth16.Setup(cs)
	if err != nil {
		return fmt.Errorf("zkproof: groth16 setup: %w", err)
	}

	p.cs, p.pk, p.vk = cs, pk, vk
	p.initialized = true
	return nil
}

// InitializeFromKeys loads a previously generated constraint system,
// proving key, and verifying key from disk instead of running a fresh
// setup.
func (p *Prover) InitializeFromKeys(csPath, pkPath, vkPath string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	cs := groth16.NewCS(ecc.BN254)
	if err := readFrom(csPath, cs); err != nil {
		return fmt.Errorf("zkproof: load constraint system: %w", err)
	}

	pk := groth16.NewProvingKey(ecc.BN254)
	if err := readFrom(pkPath, pk); err != nil {
		return fmt.Errorf("zkproof: load proving key: %w", err)
	}

	vk := groth16.NewVerifyingKey(ecc.BN254)
	if err := readFrom(vkPath, vk); err != nil {
		return fmt.Errorf("zkproof: load verifying key: %w", err)
	}

	p.cs, p.pk, p.vk = cs, pk, vk
	p.initialized = true
	return nil
}

// SaveKeys persists the compiled constraint system and Groth16 keys to
// disk for reuse via InitializeFromKeys.
func (p *Prover) SaveKeys(csPath, pkPath, vkPath string) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.initialized {
		return fmt.Errorf("zkproof: prover not initialized")
	}
	if err := writeTo(csPath, p.cs); err != nil {
		return fmt.Errorf("zkproof: save constraint system: %w", err)
	}
	if err := writeTo(pkPath, p.pk); err != nil {
		return fmt.Errorf("zkproof: save proving key: %w", err)
	}
	if err := writeTo(vkPath, p.vk); err != nil {
		return fmt.Errorf("zkproof: save verifying key: %w", err)
	}
	return nil
}

// GenerateProof builds a Groth16 proof for w. w.SignatureValid must
// already reflect a native ES256 verification; the circuit refuses to
// satisfy its constraints otherwise, so Prove fails rather than
// silently producing a proof of a false claim.
func (p *Prover) GenerateProof(w Witness) (*Proof, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.initialized {
		return nil, fmt.Errorf("zkproof: prover not initialized")
	}

	contentLimbs := splitLimbs(w.ContentHash[:])
	outputsLimbs := splitLimbs(sum32(w.PublicOutputs))

	contentCommitment := foldLimbs(contentLimbs)
	outputsCommitment := foldLimbs(outputsLimbs)

	assignment := PublicOutputsCircuit{
		ContentHashCommitment: contentCommitment,
		OutputsCommitment:     outputsCommitment,
		HasC2PA:               boolToVar(w.HasC2PA),
		TrustLevel:            w.TrustLevel,
		ContentHashLimbs:      limbsToVars(contentLimbs),
		OutputsLimbs:          limbsToVars(outputsLimbs),
		SignatureValid:        boolToVar(w.SignatureValid),
	}

	witnessData, err := frontend.NewWitness(&assignment, ecc.BN254.ScalarField())
	if err != nil {
		return nil, fmt.Errorf("zkproof: build witness: %w", err)
	}

	rawProof, err := groth16.Prove(p.cs, p.pk, witnessData)
	if err != nil {
		return nil, fmt.Errorf("zkproof: groth16 prove: %w", err)
	}

	bn254Proof, ok := rawProof.(*groth16_bn254.Proof)
	if !ok {
		return nil, fmt.Errorf("zkproof: unexpected proof type %T", rawProof)
	}

	proof := &Proof{
		ContentHashCommitment: contentCommitment,
		OutputsCommitment:     outputsCommitment,
		HasC2PA:               w.HasC2PA,
		TrustLevel:            w.TrustLevel,
	}
	bn254Proof.Ar.X.BigInt(&proof.Ar[0])
	bn254Proof.Ar.Y.BigInt(&proof.Ar[1])
	bn254Proof.Krs.X.BigInt(&proof.Krs[0])
	bn254Proof.Krs.Y.BigInt(&proof.Krs[1])
	bn254Proof.Bs.X.A0.BigInt(&proof.Bs[0][0])
	bn254Proof.Bs.X.A1.BigInt(&proof.Bs[0][1])
	bn254Proof.Bs.Y.A0.BigInt(&proof.Bs[1][0])
	bn254Proof.Bs.Y.A1.BigInt(&proof.Bs[1][1])

	return proof, nil
}

// VerifyProofLocally reconstructs the curve proof from its exported
// coordinates and checks it against the public commitments it carries.
func (p *Prover) VerifyProofLocally(proof *Proof) (bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.initialized {
		return false, fmt.Errorf("zkproof: prover not initialized")
	}

	public := PublicOutputsCircuit{
		ContentHashCommitment: proof.ContentHashCommitment,
		OutputsCommitment:     proof.OutputsCommitment,
		HasC2PA:               boolToVar(proof.HasC2PA),
		TrustLevel:            proof.TrustLevel,
	}
	publicWitness, err := frontend.NewWitness(&public, ecc.BN254.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return false, fmt.Errorf("zkproof: build public witness: %w", err)
	}

	var bn254Proof groth16_bn254.Proof
	bn254Proof.Ar.X.SetBigInt(&proof.Ar[0])
	bn254Proof.Ar.Y.SetBigInt(&proof.Ar[1])
	bn254Proof.Krs.X.SetBigInt(&proof.Krs[0])
	bn254Proof.Krs.Y.SetBigInt(&proof.Krs[1])
	bn254Proof.Bs.X.A0.SetBigInt(&proof.Bs[0][0])
	bn254Proof.Bs.X.A1.SetBigInt(&proof.Bs[0][1])
	bn254Proof.Bs.Y.A0.SetBigInt(&proof.Bs[1][0])
	bn254Proof.Bs.Y.A1.SetBigInt(&proof.Bs[1][1])

	err = groth16.Verify(&bn254Proof, p.vk, publicWitness)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func splitLimbs(data []byte) [limbWidth]*big.Int {
	var limbs [limbWidth]*big.Int
	chunk := (len(data) + limbWidth - 1) / limbWidth
	if chunk == 0 {
		chunk = 1
	}
	for i := 0; i < limbWidth; i++ {
		start := i * chunk
		end := start + chunk
		if start > len(data) {
			start = len(data)
		}
		if end > len(data) {
			end = len(data)
		}
		limbs[i] = new(big.Int).SetBytes(data[start:end])
	}
	return limbs
}

func foldLimbs(limbs [limbWidth]*big.Int) big.Int {
	commitment := new(big.Int).Set(limbs[0])
	power := big.NewInt(commitmentBase)
	for i := 1; i < limbWidth; i++ {
		term := new(big.Int).Mul(limbs[i], power)
		commitment.Add(commitment, term)
		power.Mul(power, big.NewInt(commitmentBase))
	}
	return *commitment
}

func limbsToVars(limbs [limbWidth]*big.Int) [limbWidth]frontend.Variable {
	var vars [limbWidth]frontend.Variable
	for i, l := range limbs {
		vars[i] = l
	}
	return vars
}

func boolToVar(b bool) frontend.Variable {
	if b {
		return 1
	}
	return 0
}

// sum32 returns a 32-byte SHA-256 digest of arbitrary-length bytes for
// the outputs commitment. PublicOutputs.Marshal is variable-length (it
// carries eight length-prefixed strings after the fixed content-hash
// and has_c2pa fields), so the commitment must hash the whole encoding
// rather than slice its first 32 bytes — those happen to be exactly
// the content hash itself, which would make OutputsCommitment a no-op
// restatement of ContentHashCommitment instead of binding the verdict
// fields (trust level, validation state, issuer, ...) it exists to
// protect.
func sum32(data []byte) []byte {
	sum := sha256.Sum256(data)
	return sum[:]
}

type readerFromFile interface {
	ReadFrom(r *os.File) (int64, error)
}

type writerToFile interface {
	WriteTo(w *os.File) (int64, error)
}

func readFrom(path string, dst readerFromFile) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = dst.ReadFrom(f)
	return err
}

func writeTo(path string, src writerToFile) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = src.WriteTo(f)
	return err
}
